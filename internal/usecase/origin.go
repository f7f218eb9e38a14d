package usecase

import (
	"context"
	"strings"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
	"WalletScope/internal/registry"
)

// OriginTracer walks funding backward from an address to an explainable
// origin. The walk is an explicit loop carrying (current, remaining) so
// termination is structural: the hop budget strictly decreases.
type OriginTracer struct {
	ledger   repository.Ledger
	registry *registry.Registry
}

func NewOriginTracer(ledger repository.Ledger, reg *registry.Registry) *OriginTracer {
	return &OriginTracer{ledger: ledger, registry: reg}
}

// TraceOrigin follows the largest qualifying funder upstream until a
// terminal category, the hop budget, or a dry funding trail stops it.
// Hops are prepended so the stored chain runs origin-first. A ledger
// failure mid-walk ends the chain at its current depth; partial chains are
// a normal terminal state.
func (t *OriginTracer) TraceOrigin(ctx context.Context, address string, maxHops int, minAmount float64) models.FundingChain {
	chain := models.FundingChain{}
	current := strings.ToLower(address)

	for remaining := maxHops; remaining > 0; remaining-- {
		info := t.registry.Classify(current)
		if info.Category == models.CategoryProtocol {
			break
		}
		if len(chain.Hops) > 0 && info.Category.Terminal() {
			break
		}

		incoming, err := t.ledger.IncomingTransfers(ctx, current)
		if err != nil {
			break
		}

		sender, group := t.largestSender(current, incoming, minAmount)
		if sender == "" {
			break
		}
		// Protocol contracts are never informative origins: halt without
		// recording the hop.
		if t.registry.IsProtocol(sender) {
			break
		}

		senderInfo := t.registry.Classify(sender)
		hop := models.Hop{
			From:         sender,
			To:           current,
			Amount:       group.total,
			Timestamp:    group.first.Timestamp,
			TxHash:       group.first.TxHash,
			FromCategory: senderInfo.Category,
			FromLabel:    senderInfo.Label,
		}
		chain.Hops = append([]models.Hop{hop}, chain.Hops...)

		if senderInfo.Category.Terminal() {
			break
		}
		current = sender
	}

	return chain
}

type senderGroup struct {
	total float64
	first models.Transfer
}

// largestSender groups qualifying incoming transfers by sender and picks
// the largest total. Ties prefer the sender with the earlier first
// transaction; an exact timestamp tie falls back to the lower address so
// the choice never depends on map iteration order.
func (t *OriginTracer) largestSender(current string, incoming []models.Transfer, minAmount float64) (string, senderGroup) {
	groups := make(map[string]*senderGroup)
	for _, tr := range incoming {
		if tr.Amount < minAmount {
			continue
		}
		sender := strings.ToLower(tr.From)
		if sender == current {
			continue
		}
		g, ok := groups[sender]
		if !ok {
			groups[sender] = &senderGroup{total: tr.Amount, first: tr}
			continue
		}
		g.total += tr.Amount
		if tr.Timestamp.Before(g.first.Timestamp) {
			g.first = tr
		}
	}

	var best string
	for sender, g := range groups {
		if best == "" {
			best = sender
			continue
		}
		cur := groups[best]
		switch {
		case g.total > cur.total:
			best = sender
		case g.total == cur.total && g.first.Timestamp.Before(cur.first.Timestamp):
			best = sender
		case g.total == cur.total && g.first.Timestamp.Equal(cur.first.Timestamp) && sender < best:
			best = sender
		}
	}
	if best == "" {
		return "", senderGroup{}
	}
	return best, *groups[best]
}
