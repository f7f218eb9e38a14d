// Command trace runs a single funding-provenance trace and prints the
// text report to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"WalletScope/internal/di"
	"WalletScope/internal/handler/report"
	"WalletScope/internal/usecase"
	"WalletScope/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	deep := flag.Bool("deep", true, "run sibling detection")
	origins := flag.Bool("origins", true, "run multi-hop origin tracing")
	outbound := flag.Bool("outbound", true, "run outbound analysis")
	timeout := flag.Duration("timeout", 3*time.Minute, "overall trace timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <address>\n", os.Args[0])
		os.Exit(2)
	}
	address := flag.Arg(0)

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	metrics := di.ProvideMetrics()
	httpClient := di.ProvideHTTPClient(cfg)
	cacheSvc := di.ProvideCache(cfg, logger)
	reg := di.ProvideRegistry(cfg)
	ledger := di.ProvideLedger(cfg, httpClient, logger)
	pm := di.ProvidePolymarket(cfg, httpClient, cacheSvc, metrics, logger)
	bridge := di.ProvideBridgeDecoder(cfg, httpClient)

	tracer := di.ProvideTracer(ledger, pm, pm, bridge, reg, metrics, logger, cfg)

	opts := usecase.DefaultOptions()
	opts.Deep = *deep
	opts.TraceOrigin = *origins
	opts.CheckOutbound = *outbound

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := tracer.Trace(ctx, address, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trace failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(report.Render(result))
}
