package repository

import (
	"context"

	"WalletScope/internal/domain/models"
)

// Ledger provides parsed token transfer histories. Implementations must
// return transfers sorted ascending by timestamp with lower-cased addresses
// and decimal-normalized amounts.
type Ledger interface {
	IncomingTransfers(ctx context.Context, address string) ([]models.Transfer, error)
	OutgoingTransfers(ctx context.Context, address string) ([]models.Transfer, error)
}

// MembershipOracle answers whether an address participates in the platform.
type MembershipOracle interface {
	IsMember(ctx context.Context, address string) (bool, error)
}

// ActivityProvider exposes the platform's behavioral data for an address.
type ActivityProvider interface {
	Activity(ctx context.Context, address string, limit int) ([]models.ActivityEntry, error)
	Profile(ctx context.Context, address string) (*models.Profile, error)
	Positions(ctx context.Context, address string) ([]models.Position, error)
	Portfolio(ctx context.Context, address string) (*models.PortfolioSummary, error)
}

// BridgeDecoder resolves a destination-chain tx hash to its cross-chain
// origin. A nil OriginInfo with nil error means the hash is undecodable,
// which is not a failure.
type BridgeDecoder interface {
	Decode(ctx context.Context, txHash string) (*models.OriginInfo, error)
}

// TraceArchive persists completed trace results for audit.
type TraceArchive interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, r *models.TraceResult) error
	Health(ctx context.Context) error
	Close() error
}

// TracePublisher emits completed trace findings for downstream consumers.
type TracePublisher interface {
	Publish(ctx context.Context, r *models.TraceResult) error
	Close() error
}

// Metrics records operational counters for the trace engine.
type Metrics interface {
	RecordTrace(classification string)
	RecordPhaseDuration(phase string, seconds float64)
	RecordCollaboratorError(collaborator string)
	RecordMembershipCheck(member bool)
}
