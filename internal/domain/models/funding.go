package models

import "time"

// FundingSource aggregates every transfer from one counterparty into the
// traced target. One source per unique sender.
type FundingSource struct {
	Address       string
	Label         string
	Category      AddressCategory
	SourceType    AddressCategory // category after protocol/fresh-wallet adjustment
	TotalAmount   float64
	TransferCount int
	FirstSeen     time.Time
	Transfers     []Transfer

	IsBridge bool

	// Decoded cross-chain origins for bridge-funded sources.
	BridgeOrigins []OriginInfo

	// Multi-hop backward trace starting at this source, when one was run.
	Chain *FundingChain
}

// Hop is one step of a funding chain: From funded To.
type Hop struct {
	From         string
	To           string
	Amount       float64
	Timestamp    time.Time
	TxHash       string
	FromCategory AddressCategory
	FromLabel    string
}

// FundingChain is an ordered funding path, earliest origin first, the traced
// target last. Hops[i].To == Hops[i+1].From for all i.
type FundingChain struct {
	Hops []Hop
}

// Depth is the number of hops in the chain.
func (c *FundingChain) Depth() int { return len(c.Hops) }

// Origin returns the earliest hop, or nil for an empty chain.
func (c *FundingChain) Origin() *Hop {
	if len(c.Hops) == 0 {
		return nil
	}
	return &c.Hops[0]
}

// SiblingAccount is another address funded by one or more of the target's
// funders. SharedFunders is the exact subset of the target's funders that
// funded it, in discovery order.
type SiblingAccount struct {
	Address       string
	TotalReceived float64
	IsMember      bool
	Transfers     []Transfer
	SharedFunders []string
}

// FundedAccount is an address the target itself funded.
type FundedAccount struct {
	Address       string
	TotalSent     float64
	TransferCount int
	IsMember      bool
	Transfers     []Transfer
	FirstSeen     time.Time
}

// OriginInfo is a decoded bridge deposit: where the funds entered the bridge.
type OriginInfo struct {
	OriginChainID   int64
	OriginChainName string
	OriginAddress   string
	OriginTxHash    string
	Amount          float64
	Status          string
}
