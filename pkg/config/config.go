package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Etherscan struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		ChainID        int           `yaml:"chain_id"`
		Timeout        time.Duration `yaml:"timeout"`
		RequestsPerSec float64       `yaml:"requests_per_sec"`
		PageSize       int           `yaml:"page_size"`
	} `yaml:"etherscan"`
	Polymarket struct {
		DataAPIURL  string        `yaml:"data_api_url"`
		GammaAPIURL string        `yaml:"gamma_api_url"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"polymarket"`
	Relay struct {
		Enabled bool          `yaml:"enabled"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"relay"`
	Registry struct {
		Extra []struct {
			Address  string `yaml:"address"`
			Label    string `yaml:"label"`
			Category string `yaml:"category"`
		} `yaml:"extra"`
	} `yaml:"registry"`
	Trace struct {
		FreshWalletAge    time.Duration `yaml:"fresh_wallet_age"`
		MaxSiblings       int           `yaml:"max_siblings"`
		MaxOriginHops     int           `yaml:"max_origin_hops"`
		MinTraceAmount    float64       `yaml:"min_trace_amount"`
		MinHopAmount      float64       `yaml:"min_hop_amount"`
		OutboundMin       float64       `yaml:"outbound_min"`
		MembershipWorkers int           `yaml:"membership_workers"`
		MembershipDelay   time.Duration `yaml:"membership_delay"`
		BridgeWorkers     int           `yaml:"bridge_workers"`
		BridgeDelay       time.Duration `yaml:"bridge_delay"`
	} `yaml:"trace"`
	Archive struct {
		Type string `yaml:"type"` // clickhouse, none
	} `yaml:"archive"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		MembershipTTL time.Duration `yaml:"membership_ttl"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ETHERSCAN_API_KEY"); v != "" {
		c.Etherscan.APIKey = v
	}
	if v := os.Getenv("ARCHIVE"); v != "" {
		c.Archive.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Etherscan.APIKey == "" {
		return fmt.Errorf("etherscan.api_key is required")
	}
	if c.Etherscan.ChainID <= 0 {
		return fmt.Errorf("etherscan.chain_id is required")
	}
	if c.Polymarket.DataAPIURL == "" {
		return fmt.Errorf("polymarket.data_api_url is required")
	}
	switch c.Archive.Type {
	case "", "none", "clickhouse":
	default:
		return fmt.Errorf("archive.type must be 'clickhouse' or 'none', got '%s'", c.Archive.Type)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	for _, e := range c.Registry.Extra {
		if e.Address == "" {
			return fmt.Errorf("registry.extra entries require an address")
		}
	}
	return nil
}
