package usecase

import (
	"context"
	"strings"
	"time"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
	"WalletScope/internal/registry"
	"WalletScope/pkg/logger"
)

// SiblingDetector finds other platform accounts funded by the same sources
// as the traced target.
type SiblingDetector struct {
	ledger   repository.Ledger
	oracle   repository.MembershipOracle
	registry *registry.Registry
	metrics  repository.Metrics
	log      *logger.Logger

	workers int
	delay   time.Duration
}

func NewSiblingDetector(ledger repository.Ledger, oracle repository.MembershipOracle, reg *registry.Registry, metrics repository.Metrics, log *logger.Logger, workers int, delay time.Duration) *SiblingDetector {
	return &SiblingDetector{
		ledger:   ledger,
		oracle:   oracle,
		registry: reg,
		metrics:  metrics,
		log:      log,
		workers:  workers,
		delay:    delay,
	}
}

// FindSiblings fans out through each plain-wallet funder's outbound
// transfers, merges the recipients into one candidate map, caps the
// candidate set in first-discovered order, resolves membership for the
// capped set, and reports confirmed members only. A failed outbound lookup
// for one funder never loses candidates discovered through the others.
func (d *SiblingDetector) FindSiblings(ctx context.Context, target string, sources []models.FundingSource, cap int) []models.SiblingAccount {
	target = strings.ToLower(target)
	if cap <= 0 {
		cap = 20
	}

	candidates := make(map[string]*models.SiblingAccount)
	var order []string

	for _, src := range sources {
		if !d.traceableFunder(src) {
			continue
		}
		outgoing, err := d.ledger.OutgoingTransfers(ctx, src.Address)
		if err != nil {
			if d.metrics != nil {
				d.metrics.RecordCollaboratorError("ledger")
			}
			if d.log != nil {
				d.log.Warn("funder outbound lookup failed",
					logger.String("funder", src.Address), logger.Error(err))
			}
			continue
		}
		for _, t := range outgoing {
			recipient := strings.ToLower(t.To)
			if recipient == target || recipient == src.Address {
				continue
			}
			if d.registry.IsProtocol(recipient) {
				continue
			}
			cand, ok := candidates[recipient]
			if !ok {
				cand = &models.SiblingAccount{Address: recipient}
				candidates[recipient] = cand
				order = append(order, recipient)
			}
			cand.TotalReceived += t.Amount
			cand.Transfers = append(cand.Transfers, t)
			if !containsString(cand.SharedFunders, src.Address) {
				cand.SharedFunders = append(cand.SharedFunders, src.Address)
			}
		}
	}

	if len(order) > cap {
		order = order[:cap]
	}
	if len(order) == 0 {
		return nil
	}

	membership := resolveMembership(ctx, d.oracle, order, d.workers, d.delay, d.metrics)

	var siblings []models.SiblingAccount
	for _, addr := range order {
		member, resolved := membership[addr]
		if !resolved || !member {
			continue
		}
		cand := candidates[addr]
		cand.IsMember = true
		siblings = append(siblings, *cand)
	}
	return siblings
}

// traceableFunder excludes bridges, relays and protocol contracts from the
// fan-out: they send to everyone and would mark half the platform as
// siblings.
func (d *SiblingDetector) traceableFunder(src models.FundingSource) bool {
	if src.IsBridge {
		return false
	}
	switch src.SourceType {
	case models.CategoryBridge, models.CategoryProtocol:
		return false
	}
	return true
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
