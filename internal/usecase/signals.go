package usecase

import (
	"fmt"
	"time"

	"WalletScope/internal/domain/models"
)

// Signal thresholds. The battery below checks them in a fixed order so the
// emitted list is reproducible for identical input.
const (
	veryFreshAgeDays = 7
	newAccountDays   = 30

	siblingHighCount   = 5
	siblingMediumCount = 2

	concentratedMarkets = 3
	highActivityTrades  = 100
	lowActivityTrades   = 10

	largePortfolioValue = 50000
	highWinRatePct      = 70
	lowWinRatePct       = 30

	whaleFunding       = 100000
	largeFunding       = 50000
	significantFunding = 10000

	multiSourceCount = 3
)

// ClassifierEngine derives signals and a final label from a completed
// aggregate. Pure over its input apart from the injected clock.
type ClassifierEngine struct {
	nowFn func() time.Time
}

func NewClassifierEngine() *ClassifierEngine {
	return &ClassifierEngine{nowFn: time.Now}
}

// GenerateSignals runs the fixed battery of independent checks and emits
// at most one human-readable line per check that fires.
func (e *ClassifierEngine) GenerateSignals(r *models.TraceResult) []string {
	var signals []string
	now := e.nowFn()

	if age := r.Trading.AccountAgeDays(now); age >= 0 {
		if age < veryFreshAgeDays {
			signals = append(signals, fmt.Sprintf("very fresh account (%d days old)", age))
		} else if age < newAccountDays {
			signals = append(signals, fmt.Sprintf("new account (%d days old)", age))
		}
	}

	if r.HasBridgeFunding() {
		amount := r.BridgeAmount()
		pct := 0.0
		if r.TotalFunded > 0 {
			pct = amount / r.TotalFunded * 100
		}
		signals = append(signals, fmt.Sprintf("bridge funding: $%.0f (%.0f%%)", amount, pct))
		if n := r.DecodedOriginCount(); n > 0 {
			signals = append(signals, fmt.Sprintf("decoded %d cross-chain origin(s)", n))
		}
	}

	if ex := r.ExchangeFunding(); ex > 0 {
		signals = append(signals, fmt.Sprintf("exchange funding: $%.0f", ex))
	} else if r.HasExchangeOrigin() {
		signals = append(signals, "origin traced to an exchange")
	}

	switch n := r.SiblingCount(); {
	case n >= siblingHighCount:
		signals = append(signals, fmt.Sprintf("high: %d other platform accounts from same funders", n))
	case n >= siblingMediumCount:
		signals = append(signals, fmt.Sprintf("medium: %d other platform accounts from same funders", n))
	case n == 1:
		signals = append(signals, "1 other platform account from same funder")
	}

	if n := r.FundedMemberCount(); n > 0 {
		signals = append(signals, fmt.Sprintf("funded %d other platform account(s)", n))
	}

	if r.Trading != nil {
		if r.Trading.MarketsTraded == 1 {
			signals = append(signals, "single market focus")
		} else if r.Trading.MarketsTraded > 1 && r.Trading.MarketsTraded <= concentratedMarkets {
			signals = append(signals, fmt.Sprintf("concentrated: %d markets", r.Trading.MarketsTraded))
		}
		if r.Trading.TotalTrades >= highActivityTrades {
			signals = append(signals, fmt.Sprintf("high activity: %d trades", r.Trading.TotalTrades))
		} else if r.Trading.TotalTrades < lowActivityTrades {
			signals = append(signals, fmt.Sprintf("low activity: %d trades", r.Trading.TotalTrades))
		}
	}

	if p := r.Portfolio; p != nil {
		if p.TotalValue >= largePortfolioValue {
			signals = append(signals, fmt.Sprintf("large portfolio: $%.0f", p.TotalValue))
		}
		if p.WinRate >= highWinRatePct {
			signals = append(signals, fmt.Sprintf("high win rate: %.0f%%", p.WinRate))
		} else if p.WinRate <= lowWinRatePct && p.TotalTrades >= lowActivityTrades {
			signals = append(signals, fmt.Sprintf("low win rate: %.0f%%", p.WinRate))
		}
	}

	switch {
	case r.TotalFunded >= whaleFunding:
		signals = append(signals, fmt.Sprintf("whale funding: $%.0f", r.TotalFunded))
	case r.TotalFunded >= largeFunding:
		signals = append(signals, fmt.Sprintf("large funding: $%.0f", r.TotalFunded))
	case r.TotalFunded >= significantFunding:
		signals = append(signals, fmt.Sprintf("significant funding: $%.0f", r.TotalFunded))
	}

	if n := r.RealWalletSourceCount(); n >= multiSourceCount {
		signals = append(signals, fmt.Sprintf("multiple funding sources: %d wallets", n))
	}

	if n := r.FreshFunderCount(); n > 0 {
		signals = append(signals, fmt.Sprintf("funded by %d fresh wallet(s)", n))
	}

	return signals
}
