package models

import "time"

// TradingBehavior summarizes the target's activity on the platform.
type TradingBehavior struct {
	TotalTrades    int
	MarketsTraded  int
	UniqueOutcomes int
	FirstTradeAt   time.Time
	LastTradeAt    time.Time
}

// AccountAgeDays is the whole number of days between the first trade and now.
// Returns -1 when no trade has been seen.
func (t *TradingBehavior) AccountAgeDays(now time.Time) int {
	if t == nil || t.FirstTradeAt.IsZero() {
		return -1
	}
	return int(now.Sub(t.FirstTradeAt).Hours() / 24)
}

// Position is one open platform position.
type Position struct {
	MarketQuestion string
	Outcome        string
	Size           float64
	AvgPrice       float64
	CurrentPrice   float64
	Value          float64
	UnrealizedPnL  float64
}

// PortfolioSummary aggregates the target's platform portfolio.
type PortfolioSummary struct {
	TotalValue     float64
	UnrealizedPnL  float64
	RealizedPnL    float64
	WinRate        float64 // percent, 0-100
	PositionsCount int
	TotalTrades    int
}

// Profile is the platform's public profile for an address.
type Profile struct {
	Name      string
	Pseudonym string
	Bio       string
	CreatedAt time.Time
}

// ActivityEntry is one raw platform activity row, the unit the trading
// behavior summary is computed from.
type ActivityEntry struct {
	ConditionID string
	Outcome     string
	Type        string
	Timestamp   time.Time
}
