package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
	"WalletScope/internal/handler/api"
	internalrepo "WalletScope/internal/repository"
	"WalletScope/internal/registry"
	"WalletScope/internal/service/etherscan"
	"WalletScope/internal/service/polymarket"
	"WalletScope/internal/service/ratelimit"
	"WalletScope/internal/usecase"
	"WalletScope/pkg/cache"
	pkgch "WalletScope/pkg/clickhouse"
	"WalletScope/pkg/config"
	apphttp "WalletScope/pkg/http"
	pkgkafka "WalletScope/pkg/kafka"
	applogger "WalletScope/pkg/logger"
	"WalletScope/pkg/metrics"
	"WalletScope/pkg/server"

	relaysvc "WalletScope/internal/service/relay"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *apphttp.Client {
	timeout := cfg.Etherscan.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return apphttp.NewClient(apphttp.WithTimeout(timeout))
}

// ProvideRegistry builds the known-address registry with config overrides.
func ProvideRegistry(cfg *config.Config) *registry.Registry {
	extra := make([]registry.Entry, 0, len(cfg.Registry.Extra))
	for _, e := range cfg.Registry.Extra {
		extra = append(extra, registry.Entry{
			Address:  strings.ToLower(e.Address),
			Label:    e.Label,
			Category: models.AddressCategory(e.Category),
		})
	}
	return registry.New(extra)
}

// ProvideCache selects the membership cache backend: layered redis when
// configured, plain in-memory otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) cache.Service {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache()
	}

	host, port := splitHostPort(cfg.Cache.Redis.Addr)
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix("walletscope"),
	)
	if err != nil {
		l.Warn("redis unavailable, using in-memory cache", applogger.Error(err))
		return cache.NewMemoryCache()
	}
	return cache.NewLayeredCache(redisCache)
}

// ProvideLedger creates the Etherscan-backed transfer ledger.
func ProvideLedger(cfg *config.Config, httpClient *apphttp.Client, l *applogger.Logger) repository.Ledger {
	return etherscan.NewClient(httpClient, ratelimit.New(), l, etherscan.Config{
		BaseURL:        cfg.Etherscan.BaseURL,
		APIKey:         cfg.Etherscan.APIKey,
		ChainID:        cfg.Etherscan.ChainID,
		PageSize:       cfg.Etherscan.PageSize,
		RequestsPerSec: cfg.Etherscan.RequestsPerSec,
	})
}

// ProvidePolymarket creates the platform client.
func ProvidePolymarket(cfg *config.Config, httpClient *apphttp.Client, c cache.Service, m repository.Metrics, l *applogger.Logger) *polymarket.Client {
	return polymarket.NewClient(httpClient, c, m, l, polymarket.Config{
		DataAPIURL:    cfg.Polymarket.DataAPIURL,
		GammaAPIURL:   cfg.Polymarket.GammaAPIURL,
		MembershipTTL: cfg.Cache.MembershipTTL,
	})
}

// ProvideMembershipOracle exposes the platform client as the oracle.
func ProvideMembershipOracle(pm *polymarket.Client) repository.MembershipOracle {
	return pm
}

// ProvideActivityProvider exposes the platform client as the activity source.
func ProvideActivityProvider(pm *polymarket.Client) repository.ActivityProvider {
	return pm
}

// ProvideBridgeDecoder creates the relay decoder, or nil when disabled.
// The tracer treats a nil decoder as "skip bridge decoding".
func ProvideBridgeDecoder(cfg *config.Config, httpClient *apphttp.Client) repository.BridgeDecoder {
	if !cfg.Relay.Enabled {
		return nil
	}
	return relaysvc.NewDecoder(httpClient, relaysvc.Config{BaseURL: cfg.Relay.BaseURL})
}

// ProvideTracer assembles the trace engine.
func ProvideTracer(
	ledger repository.Ledger,
	oracle repository.MembershipOracle,
	activity repository.ActivityProvider,
	bridge repository.BridgeDecoder,
	reg *registry.Registry,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Tracer {
	return usecase.NewTracer(ledger, oracle, activity, bridge, reg, m, l, usecase.TracerConfig{
		FreshWalletAge:    cfg.Trace.FreshWalletAge,
		MembershipWorkers: cfg.Trace.MembershipWorkers,
		MembershipDelay:   cfg.Trace.MembershipDelay,
		BridgeWorkers:     cfg.Trace.BridgeWorkers,
		BridgeDelay:       cfg.Trace.BridgeDelay,
	})
}

// ProvideTraceArchive creates the ClickHouse archive, or a no-op when
// archival is disabled.
func ProvideTraceArchive(cfg *config.Config, l *applogger.Logger) (repository.TraceArchive, error) {
	if cfg.Archive.Type != "clickhouse" {
		return internalrepo.NopArchive{}, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	archive := internalrepo.NewCHTraceArchive(client)
	archive.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		_ = archive.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return archive, nil
}

// ProvideTracePublisher creates the Kafka findings publisher, or a no-op
// when the topic is disabled.
func ProvideTracePublisher(cfg *config.Config, l *applogger.Logger) (repository.TracePublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	publisher := internalrepo.NewKafkaTracePublisher(producer, cfg.Kafka.Topic)
	publisher.SetLogger(l)
	return publisher, nil
}

// ProvideTraceHandler creates the HTTP handler with server-side trace
// defaults from config.
func ProvideTraceHandler(cfg *config.Config, l *applogger.Logger, tracer *usecase.Tracer, archive repository.TraceArchive, publisher repository.TracePublisher) *api.TraceHandler {
	h := api.NewTraceHandler(l, tracer, archive, publisher)

	opts := usecase.DefaultOptions()
	if cfg.Trace.MaxSiblings > 0 {
		opts.MaxSiblings = cfg.Trace.MaxSiblings
	}
	if cfg.Trace.MaxOriginHops > 0 {
		opts.MaxOriginHops = cfg.Trace.MaxOriginHops
	}
	if cfg.Trace.MinTraceAmount > 0 {
		opts.MinTraceAmount = cfg.Trace.MinTraceAmount
	}
	if cfg.Trace.MinHopAmount > 0 {
		opts.MinHopAmount = cfg.Trace.MinHopAmount
	}
	if cfg.Trace.OutboundMin > 0 {
		opts.OutboundMin = cfg.Trace.OutboundMin
	}
	h.SetDefaultOptions(opts)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.TraceHandler,
	archive repository.TraceArchive,
	publisher repository.TracePublisher,
) *server.App {
	return server.New(cfg, l, handler, archive, publisher)
}

func splitHostPort(addr string) (string, int) {
	host, portStr, ok := strings.Cut(addr, ":")
	if !ok {
		return addr, 6379
	}
	port := 6379
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		port = 6379
	}
	return host, port
}
