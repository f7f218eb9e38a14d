package usecase

import (
	"testing"
	"time"

	"WalletScope/internal/domain/models"
)

func memberSiblings(n int) []models.SiblingAccount {
	out := make([]models.SiblingAccount, n)
	for i := range out {
		out[i].IsMember = true
	}
	return out
}

func fundedMembers(n int) []models.FundedAccount {
	out := make([]models.FundedAccount, n)
	for i := range out {
		out[i].IsMember = true
	}
	return out
}

func bridgeSource(amount float64) models.FundingSource {
	return models.FundingSource{Address: addrRelay, IsBridge: true, SourceType: models.CategoryBridge, TotalAmount: amount}
}

func TestClassifyOrderedRules(t *testing.T) {
	oldTrading := &models.TradingBehavior{
		FirstTradeAt:  baseTime.Add(-400 * 24 * time.Hour),
		TotalTrades:   50,
		MarketsTraded: 8,
	}

	cases := []struct {
		name   string
		result *models.TraceResult
		want   models.Classification
	}{
		{
			name: "coordinated from siblings alone",
			result: &models.TraceResult{
				Siblings: memberSiblings(3),
				Trading:  oldTrading,
			},
			want: models.ClassCoordinated,
		},
		{
			name: "coordinated from combined linkage",
			result: &models.TraceResult{
				Siblings:      memberSiblings(2),
				FundedMembers: fundedMembers(1),
				Trading:       oldTrading,
			},
			want: models.ClassCoordinated,
		},
		{
			name: "sophisticated bridge user",
			result: &models.TraceResult{
				FundingSources: []models.FundingSource{bridgeSource(12000)},
				TotalFunded:    12000,
				Trading: &models.TradingBehavior{
					FirstTradeAt:  baseTime.Add(-400 * 24 * time.Hour),
					TotalTrades:   40,
					MarketsTraded: 2,
				},
			},
			want: models.ClassSophisticated,
		},
		{
			name: "bridge without focus falls to review",
			result: &models.TraceResult{
				FundingSources: []models.FundingSource{bridgeSource(12000)},
				TotalFunded:    12000,
				Trading:        oldTrading,
			},
			want: models.ClassCrossChainReview,
		},
		{
			name: "fresh account with large funding",
			result: &models.TraceResult{
				TotalFunded: 6000,
				Trading: &models.TradingBehavior{
					FirstTradeAt:  baseTime.Add(-5 * 24 * time.Hour),
					TotalTrades:   30,
					MarketsTraded: 6,
				},
			},
			want: models.ClassFreshLargeFunds,
		},
		{
			name: "single large bet",
			result: &models.TraceResult{
				TotalFunded: 3000,
				Trading: &models.TradingBehavior{
					FirstTradeAt:  baseTime.Add(-100 * 24 * time.Hour),
					TotalTrades:   3,
					MarketsTraded: 1,
				},
			},
			want: models.ClassSingleBet,
		},
		{
			name: "funds members",
			result: &models.TraceResult{
				FundedMembers: fundedMembers(1),
				Trading:       oldTrading,
			},
			want: models.ClassFundsMembers,
		},
		{
			name: "some linked accounts",
			result: &models.TraceResult{
				Siblings: memberSiblings(2),
				Trading:  oldTrading,
			},
			want: models.ClassSomeLinked,
		},
		{
			name: "retail diversified",
			result: &models.TraceResult{
				Trading: oldTrading,
			},
			want: models.ClassRetailDiverse,
		},
		{
			name: "retail",
			result: &models.TraceResult{
				Trading: &models.TradingBehavior{
					FirstTradeAt:  baseTime.Add(-400 * 24 * time.Hour),
					TotalTrades:   20,
					MarketsTraded: 2,
				},
			},
			want: models.ClassRetail,
		},
		{
			name:   "empty trace is retail",
			result: &models.TraceResult{},
			want:   models.ClassRetail,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := newTestEngine().Classify(tc.result); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

// Linkage outranks bridge funding: a heavily linked account with bridge
// sources is coordinated, never just a cross-chain review.
func TestClassifyLinkageBeatsBridge(t *testing.T) {
	r := &models.TraceResult{
		Siblings:       memberSiblings(4),
		FundingSources: []models.FundingSource{bridgeSource(50000)},
		TotalFunded:    50000,
		Trading: &models.TradingBehavior{
			FirstTradeAt:  baseTime.Add(-2 * 24 * time.Hour),
			TotalTrades:   2,
			MarketsTraded: 1,
		},
	}
	if got := newTestEngine().Classify(r); got != models.ClassCoordinated {
		t.Errorf("got %s, want coordinated", got)
	}
}

// Non-member siblings never count toward linkage.
func TestClassifyIgnoresNonMemberSiblings(t *testing.T) {
	r := &models.TraceResult{
		Siblings: []models.SiblingAccount{{}, {}, {}, {}},
		Trading: &models.TradingBehavior{
			FirstTradeAt:  baseTime.Add(-400 * 24 * time.Hour),
			TotalTrades:   20,
			MarketsTraded: 2,
		},
	}
	if got := newTestEngine().Classify(r); got != models.ClassRetail {
		t.Errorf("got %s, want retail", got)
	}
}

func TestClassifySingleSiblingIsSomeLinked(t *testing.T) {
	r := &models.TraceResult{
		Siblings: memberSiblings(1),
		Trading: &models.TradingBehavior{
			FirstTradeAt:  baseTime.Add(-400 * 24 * time.Hour),
			TotalTrades:   200,
			MarketsTraded: 10,
		},
	}
	if got := newTestEngine().Classify(r); got != models.ClassSomeLinked {
		t.Errorf("got %s, want some_linked", got)
	}
}
