package models

import "time"

// TraceOptions controls which phases of a trace run and their bounds.
type TraceOptions struct {
	Deep             bool    // enable sibling detection
	MaxSiblings      int     // candidate cap before membership resolution
	TraceOrigin      bool    // enable multi-hop backward tracing
	MaxOriginHops    int     // hop budget per chain
	MinTraceAmount   float64 // a source must total at least this to be traced
	MinHopAmount     float64 // per-hop qualifying transfer threshold
	CheckOutbound    bool    // enable forward analysis
	OutboundMin      float64 // dust filter for outbound edges
	IncludePositions bool    // fetch open positions and portfolio
}

// TraceResult is the aggregate produced by one trace invocation. Each phase
// appends only to its own section; the result is read only after all phases
// have joined.
type TraceResult struct {
	Address  string
	IsMember bool
	Profile  *Profile

	// Funding analysis (graph builder).
	FundingSources []FundingSource
	TotalFunded    float64
	FirstFundingAt time.Time

	// Sibling detection.
	Siblings []SiblingAccount

	// Outbound analysis.
	FundedAccounts   []FundedAccount
	FundedMembers    []FundedAccount
	TotalSentToOther float64

	// Platform behavior.
	Trading   *TradingBehavior
	Portfolio *PortfolioSummary
	Positions []Position

	// Origin tracing.
	OriginChains    []FundingChain
	UltimateOrigins []string

	// Classification engine output.
	Signals        []string
	Classification Classification

	TracedAt time.Time
}

// SiblingCount is the number of confirmed platform-member siblings.
func (r *TraceResult) SiblingCount() int {
	n := 0
	for _, s := range r.Siblings {
		if s.IsMember {
			n++
		}
	}
	return n
}

// FundedMemberCount is the number of platform members the target funded.
func (r *TraceResult) FundedMemberCount() int { return len(r.FundedMembers) }

// HasBridgeFunding reports whether any funding arrived through a bridge.
func (r *TraceResult) HasBridgeFunding() bool {
	for _, f := range r.FundingSources {
		if f.IsBridge {
			return true
		}
	}
	return false
}

// BridgeAmount totals funding that arrived through bridges.
func (r *TraceResult) BridgeAmount() float64 {
	var sum float64
	for _, f := range r.FundingSources {
		if f.IsBridge {
			sum += f.TotalAmount
		}
	}
	return sum
}

// ExchangeFunding totals funding received directly from exchange addresses.
func (r *TraceResult) ExchangeFunding() float64 {
	var sum float64
	for _, f := range r.FundingSources {
		if f.SourceType == CategoryExchange {
			sum += f.TotalAmount
		}
	}
	return sum
}

// HasExchangeOrigin reports whether any origin chain bottomed out at an
// exchange.
func (r *TraceResult) HasExchangeOrigin() bool {
	for i := range r.OriginChains {
		if o := r.OriginChains[i].Origin(); o != nil && o.FromCategory == CategoryExchange {
			return true
		}
	}
	return false
}

// RealWalletSourceCount counts funding sources that are plain wallets, i.e.
// not bridges, swap venues or protocol contracts.
func (r *TraceResult) RealWalletSourceCount() int {
	n := 0
	for _, f := range r.FundingSources {
		if f.IsBridge {
			continue
		}
		switch f.SourceType {
		case CategoryProtocol, CategoryBridge, CategorySwap:
		default:
			n++
		}
	}
	return n
}

// FreshFunderCount counts funding sources classified as fresh wallets.
func (r *TraceResult) FreshFunderCount() int {
	n := 0
	for _, f := range r.FundingSources {
		if f.SourceType == CategoryFreshWallet {
			n++
		}
	}
	return n
}

// DecodedOriginCount counts bridge transfers that decoded to a source chain.
func (r *TraceResult) DecodedOriginCount() int {
	n := 0
	for _, f := range r.FundingSources {
		n += len(f.BridgeOrigins)
	}
	return n
}
