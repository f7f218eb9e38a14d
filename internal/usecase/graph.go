package usecase

import (
	"context"
	"strings"
	"time"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
	"WalletScope/internal/registry"
)

// GraphBuilder aggregates raw transfer lists into per-counterparty funding
// and spending summaries. Aggregation is insert-or-merge into an
// address-keyed map; iteration order is first-discovered order so repeated
// runs over the same input produce identical output.
type GraphBuilder struct {
	registry  *registry.Registry
	ledger    repository.Ledger
	freshness time.Duration
	nowFn     func() time.Time
}

// NewGraphBuilder constructs a builder. freshness is the wallet-age
// threshold below which an uncategorized funder counts as a fresh wallet.
func NewGraphBuilder(reg *registry.Registry, ledger repository.Ledger, freshness time.Duration) *GraphBuilder {
	if freshness <= 0 {
		freshness = 7 * 24 * time.Hour
	}
	return &GraphBuilder{
		registry:  reg,
		ledger:    ledger,
		freshness: freshness,
		nowFn:     time.Now,
	}
}

// BuildIncoming groups transfers into the target by sender. Every transfer
// lands in exactly one source, so source totals sum to the input total.
func (b *GraphBuilder) BuildIncoming(target string, transfers []models.Transfer) []models.FundingSource {
	target = strings.ToLower(target)

	bysender := make(map[string]*models.FundingSource)
	var order []string

	for _, t := range transfers {
		if !strings.EqualFold(t.To, target) {
			continue
		}
		sender := strings.ToLower(t.From)
		src, ok := bysender[sender]
		if !ok {
			info := b.registry.Classify(sender)
			src = &models.FundingSource{
				Address:    sender,
				Label:      info.Label,
				Category:   info.Category,
				SourceType: info.Category,
				FirstSeen:  t.Timestamp,
				IsBridge:   info.Category == models.CategoryBridge,
			}
			bysender[sender] = src
			order = append(order, sender)
		}
		src.TotalAmount += t.Amount
		src.TransferCount++
		src.Transfers = append(src.Transfers, t)
		if t.Timestamp.Before(src.FirstSeen) {
			src.FirstSeen = t.Timestamp
		}
	}

	out := make([]models.FundingSource, 0, len(order))
	for _, sender := range order {
		out = append(out, *bysender[sender])
	}
	return out
}

// BuildOutgoing groups transfers from the target by recipient. Protocol
// recipients are excluded, and edges totaling below minAmount are dropped
// entirely as dust.
func (b *GraphBuilder) BuildOutgoing(target string, transfers []models.Transfer, minAmount float64) []models.FundedAccount {
	target = strings.ToLower(target)

	byrecipient := make(map[string]*models.FundedAccount)
	var order []string

	for _, t := range transfers {
		if !strings.EqualFold(t.From, target) {
			continue
		}
		recipient := strings.ToLower(t.To)
		if recipient == target || b.registry.IsProtocol(recipient) {
			continue
		}
		acct, ok := byrecipient[recipient]
		if !ok {
			acct = &models.FundedAccount{Address: recipient, FirstSeen: t.Timestamp}
			byrecipient[recipient] = acct
			order = append(order, recipient)
		}
		acct.TotalSent += t.Amount
		acct.TransferCount++
		acct.Transfers = append(acct.Transfers, t)
		if t.Timestamp.Before(acct.FirstSeen) {
			acct.FirstSeen = t.Timestamp
		}
	}

	out := make([]models.FundedAccount, 0, len(order))
	for _, recipient := range order {
		if byrecipient[recipient].TotalSent < minAmount {
			continue
		}
		out = append(out, *byrecipient[recipient])
	}
	return out
}

// ResolveFreshness marks uncategorized non-bridge funders whose own first
// activity is younger than the freshness threshold. A failed lookup leaves
// the source unchanged.
func (b *GraphBuilder) ResolveFreshness(ctx context.Context, sources []models.FundingSource) {
	cutoff := b.nowFn().Add(-b.freshness)
	for i := range sources {
		src := &sources[i]
		if src.IsBridge || src.SourceType != models.CategoryUnknown {
			continue
		}
		history, err := b.ledger.IncomingTransfers(ctx, src.Address)
		if err != nil {
			continue
		}
		if len(history) == 0 {
			// No prior funding at all: the wallet sprang into existence
			// for this transfer.
			src.SourceType = models.CategoryFreshWallet
			continue
		}
		if history[0].Timestamp.After(cutoff) {
			src.SourceType = models.CategoryFreshWallet
		}
	}
}
