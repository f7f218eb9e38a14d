//go:build wireinject
// +build wireinject

package di

import (
	"WalletScope/pkg/config"
	"WalletScope/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideCache,

		// Domain collaborators
		ProvideRegistry,
		ProvideLedger,
		ProvidePolymarket,
		ProvideMembershipOracle,
		ProvideActivityProvider,
		ProvideBridgeDecoder,

		// Sinks
		ProvideTraceArchive,
		ProvideTracePublisher,

		// Use cases
		ProvideTracer,

		// HTTP surface
		ProvideTraceHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
