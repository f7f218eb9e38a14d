package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
	"WalletScope/pkg/logger"
)

// OutboundAnalyzer mirrors sibling detection in the forward direction:
// who did the target itself fund.
type OutboundAnalyzer struct {
	ledger  repository.Ledger
	oracle  repository.MembershipOracle
	builder *GraphBuilder
	metrics repository.Metrics
	log     *logger.Logger

	workers int
	delay   time.Duration
}

func NewOutboundAnalyzer(ledger repository.Ledger, oracle repository.MembershipOracle, builder *GraphBuilder, metrics repository.Metrics, log *logger.Logger, workers int, delay time.Duration) *OutboundAnalyzer {
	return &OutboundAnalyzer{
		ledger:  ledger,
		oracle:  oracle,
		builder: builder,
		metrics: metrics,
		log:     log,
		workers: workers,
		delay:   delay,
	}
}

// FindFunded aggregates the target's outgoing transfers, resolves platform
// membership for the largest recipients up to the cap, and returns every
// recipient sorted by descending total sent. Unlike siblings, non-member
// recipients stay in the report: who a wallet pays is informative even
// off-platform.
func (a *OutboundAnalyzer) FindFunded(ctx context.Context, target string, minAmount float64, cap int) []models.FundedAccount {
	target = strings.ToLower(target)
	if cap <= 0 {
		cap = 20
	}

	outgoing, err := a.ledger.OutgoingTransfers(ctx, target)
	if err != nil {
		if a.metrics != nil {
			a.metrics.RecordCollaboratorError("ledger")
		}
		if a.log != nil {
			a.log.Warn("outbound lookup failed",
				logger.String("target", target), logger.Error(err))
		}
		return nil
	}

	accounts := a.builder.BuildOutgoing(target, outgoing, minAmount)
	if len(accounts) == 0 {
		return nil
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].TotalSent > accounts[j].TotalSent
	})

	n := len(accounts)
	if n > cap {
		n = cap
	}
	addrs := make([]string, 0, n)
	for _, acct := range accounts[:n] {
		addrs = append(addrs, acct.Address)
	}

	membership := resolveMembership(ctx, a.oracle, addrs, a.workers, a.delay, a.metrics)
	for i := range accounts {
		accounts[i].IsMember = membership[accounts[i].Address]
	}
	return accounts
}
