package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"WalletScope/internal/domain/repository"
	"WalletScope/internal/handler/api"
	"WalletScope/pkg/config"
	xhttp "WalletScope/pkg/http"
	applogger "WalletScope/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server plus the
// archive and publisher sinks that need an orderly close.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    *api.TraceHandler
	httpServer *xhttp.Server
	archive    repository.TraceArchive
	publisher  repository.TracePublisher
}

// New creates an App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler *api.TraceHandler,
	archive repository.TraceArchive,
	publisher repository.TracePublisher,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		archive:   archive,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("archive", a.cfg.Archive.Type),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops the HTTP server and closes the sinks.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.log.Warn("archive close error", applogger.Error(err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
