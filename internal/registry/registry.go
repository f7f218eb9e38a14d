// Package registry provides static address classification. It is a pure
// lookup table: no network I/O, safe for concurrent use once built.
package registry

import (
	"strings"

	"WalletScope/internal/domain/models"
)

// Entry is one configured address classification.
type Entry struct {
	Address  string
	Label    string
	Category models.AddressCategory
}

// Registry maps lower-cased addresses to their classification.
type Registry struct {
	entries map[string]models.AddressInfo
}

// known Polygon addresses relevant to tracing platform accounts.
var builtin = []Entry{
	// Token contracts.
	{"0x3c499c542cef5e3811e1192ce70d8cc03d5c3359", "USDC", models.CategoryProtocol},
	{"0x2791bca1f2de4661ed88a30c99a7a9449aa84174", "USDC.e", models.CategoryProtocol},

	// Platform settlement contracts. These send USDC back to users on
	// settlement events and must never be treated as real funders.
	{"0x4bfb41d5b3570defd03c39a9a4d8de6bd8b8982e", "CTF Exchange", models.CategoryProtocol},
	{"0xc5d563a36ae78145c45a50134d48a1215220f80a", "Neg Risk CTF Exchange", models.CategoryProtocol},
	{"0x4d97dcd97ec945f40cf65f87097ace5ea0476045", "Conditional Tokens", models.CategoryProtocol},
	{"0xd91e80cf2e7be2e162c6513ced06f1dd0da35296", "Neg Risk Adapter", models.CategoryProtocol},

	// Bridge depositors.
	{"0x0000000000a39bb272e79075ade125fd351887ac", "Relay.link", models.CategoryBridge},
	{"0xf70da97812cb96acdf810712aa562db8dfa3dbef", "Relay.link Executor", models.CategoryBridge},
	{"0x2a1530c4c41db0b0b2bb646cb5eb1a73fc894e25", "Hop Protocol", models.CategoryBridge},

	// Exchange hot wallets on Polygon.
	{"0xf977814e90da44bfa03b6295a0616a897441acec", "Binance", models.CategoryExchange},
	{"0xe7804c37c13166ff0b37f5ae0bb07a3aebb6e245", "Binance Hot Wallet", models.CategoryExchange},
	{"0x082489a616ab4d46d1947ee3f912e080815b08da", "Coinbase", models.CategoryExchange},
	{"0x5754284f345afc66a98fbb0a0afe71e0f007b949", "Tether Treasury", models.CategoryExchange},
	{"0x9b64203878f24eb0cdf55c8c6fa7d08ba0cf77e5", "Bybit", models.CategoryExchange},
	{"0x1ab4973a48dc892cd9971ece8e01dcc7688f8f23", "OKX", models.CategoryExchange},
	{"0x48d004a6c175db331e99beaf64423b3098357ae7", "Crypto.com", models.CategoryExchange},

	// Swap venues.
	{"0xe592427a0aece92de3edee1f18e0157c05861564", "Uniswap V3 Router", models.CategorySwap},
	{"0x68b3465833fb72a70ecdf485e0e4c7bd8665fc45", "Uniswap V3 Router 2", models.CategorySwap},
	{"0xa5e0829caced8ffdd4de3c43696c57f7d7a678ff", "QuickSwap Router", models.CategorySwap},
	{"0x1111111254eeb25477b68fb85ed929f73a960582", "1inch Router", models.CategorySwap},
}

// New builds a registry from the builtin table plus any extra configured
// entries. Extras win on collision so deployments can re-label addresses.
func New(extra []Entry) *Registry {
	r := &Registry{entries: make(map[string]models.AddressInfo, len(builtin)+len(extra))}
	for _, e := range builtin {
		r.add(e)
	}
	for _, e := range extra {
		r.add(e)
	}
	return r
}

func (r *Registry) add(e Entry) {
	addr := strings.ToLower(strings.TrimSpace(e.Address))
	if addr == "" {
		return
	}
	cat := e.Category
	if cat == "" {
		cat = models.CategoryEntity
	}
	r.entries[addr] = models.AddressInfo{Address: addr, Label: e.Label, Category: cat}
}

// Classify returns the address's classification, falling back to unknown.
// Lookup is case-insensitive.
func (r *Registry) Classify(address string) models.AddressInfo {
	addr := strings.ToLower(address)
	if info, ok := r.entries[addr]; ok {
		return info
	}
	return models.AddressInfo{Address: addr, Category: models.CategoryUnknown}
}

// Label returns the configured label for an address, empty when unknown.
func (r *Registry) Label(address string) string {
	return r.Classify(address).Label
}

// IsProtocol reports whether the address is a known protocol contract.
func (r *Registry) IsProtocol(address string) bool {
	return r.Classify(address).Category == models.CategoryProtocol
}

// IsBridge reports whether the address is a known bridge depositor.
func (r *Registry) IsBridge(address string) bool {
	return r.Classify(address).Category == models.CategoryBridge
}
