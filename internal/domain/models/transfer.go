package models

import "time"

// AddressCategory classifies an address by what kind of actor it is on chain.
type AddressCategory string

const (
	CategoryExchange    AddressCategory = "exchange"
	CategoryBridge      AddressCategory = "bridge"
	CategorySwap        AddressCategory = "swap"
	CategoryEntity      AddressCategory = "entity"
	CategoryProtocol    AddressCategory = "protocol"
	CategoryFreshWallet AddressCategory = "fresh_wallet"
	CategoryUnknown     AddressCategory = "unknown"
)

// Terminal reports whether tracing past this category adds information.
// Exchanges, bridges, swap venues and protocol contracts are already
// explainable origins.
func (c AddressCategory) Terminal() bool {
	switch c {
	case CategoryExchange, CategoryBridge, CategorySwap, CategoryProtocol:
		return true
	}
	return false
}

// AddressInfo is the registry's view of a single address. Immutable for the
// duration of a trace.
type AddressInfo struct {
	Address  string
	Label    string
	Category AddressCategory
}

// Transfer is one token transfer event as returned by the ledger provider.
// Addresses are lower-cased and Amount is already decimal-normalized using
// the token's declared precision.
type Transfer struct {
	TxHash      string
	From        string
	To          string
	Amount      float64
	TokenSymbol string
	Timestamp   time.Time
	BlockNumber int64
}
