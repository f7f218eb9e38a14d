package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: production
server:
  port: 8080
etherscan:
  api_key: test-key
  chain_id: 137
polymarket:
  data_api_url: https://data-api.polymarket.com
archive:
  type: none
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Etherscan.ChainID != 137 {
		t.Errorf("chain_id = %d, want 137", cfg.Etherscan.ChainID)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ETHERSCAN_API_KEY", "env-key")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Etherscan.APIKey != "env-key" {
		t.Errorf("api_key = %q, want env override", cfg.Etherscan.APIKey)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing environment", func(c *Config) { c.Environment = "" }},
		{"missing api key", func(c *Config) { c.Etherscan.APIKey = "" }},
		{"bad chain id", func(c *Config) { c.Etherscan.ChainID = 0 }},
		{"missing data api url", func(c *Config) { c.Polymarket.DataAPIURL = "" }},
		{"unknown archive type", func(c *Config) { c.Archive.Type = "postgres" }},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}
