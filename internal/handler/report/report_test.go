package report

import (
	"strings"
	"testing"
	"time"

	"WalletScope/internal/domain/models"
)

func TestHeadlinePerClassification(t *testing.T) {
	cases := []struct {
		class models.Classification
		want  string
	}{
		{models.ClassCoordinated, "Likely Coordinated"},
		{models.ClassSophisticated, "Sophisticated/Punt"},
		{models.ClassCrossChainReview, "Cross-chain Funder"},
		{models.ClassFreshLargeFunds, "Fresh + Large Funding"},
		{models.ClassSingleBet, "Single Bet Account"},
		{models.ClassFundsMembers, "Other Member Account"},
		{models.ClassSomeLinked, "Some Linked Accounts"},
		{models.ClassRetailDiverse, "Likely Retail (Diversified)"},
		{models.ClassRetail, "Likely Retail"},
		{models.ClassInconclusive, "Inconclusive"},
	}
	for _, tc := range cases {
		got := Headline(&models.TraceResult{Classification: tc.class})
		if !strings.Contains(got, tc.want) {
			t.Errorf("Headline(%s) = %q, want substring %q", tc.class, got, tc.want)
		}
	}
}

func TestHeadlineCoordinatedCountsLinks(t *testing.T) {
	r := &models.TraceResult{
		Classification: models.ClassCoordinated,
		Siblings: []models.SiblingAccount{
			{Address: "0xaa", IsMember: true},
			{Address: "0xab", IsMember: true},
			{Address: "0xac", IsMember: false},
		},
		FundedMembers: []models.FundedAccount{{Address: "0xad"}},
	}
	got := Headline(r)
	if !strings.Contains(got, "3 linked accounts") {
		t.Errorf("Headline = %q, want member siblings + funded members = 3", got)
	}
}

func TestRenderSections(t *testing.T) {
	r := &models.TraceResult{
		Address:        "0x1111111111111111111111111111111111111111",
		IsMember:       true,
		Classification: models.ClassCrossChainReview,
		Profile:        &models.Profile{Pseudonym: "quiet-otter"},
		Signals:        []string{"🌉 Funded via bridge: $2500 (100%)"},
		TotalFunded:    2500,
		FirstFundingAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		FundingSources: []models.FundingSource{
			{
				Address:       "0x2222222222222222222222222222222222222222",
				Label:         "Relay Bridge",
				SourceType:    models.CategoryBridge,
				IsBridge:      true,
				TotalAmount:   2500,
				TransferCount: 1,
				BridgeOrigins: []models.OriginInfo{
					{OriginChainName: "Arbitrum", OriginAddress: "0x3333333333333333333333333333333333333333", Amount: 2500},
				},
			},
		},
		Trading:   &models.TradingBehavior{TotalTrades: 4, MarketsTraded: 2},
		Portfolio: &models.PortfolioSummary{TotalValue: 1234567.5, WinRate: 60},
	}

	out := Render(r)
	for _, want := range []string{
		"✅ Platform Account",
		"Username: quiet-otter",
		"Cross-chain Funder",
		"Funded via bridge",
		"Total Funded: $2,500.00 from 1 source(s)",
		"First funded: 2025-03-01",
		"Relay Bridge",
		"Arbitrum",
		"4 trade(s) across 2 market(s)",
		"$1,234,567.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderNonMemberOmitsEmptySections(t *testing.T) {
	r := &models.TraceResult{
		Address:        "0x1111111111111111111111111111111111111111",
		Classification: models.ClassRetail,
	}
	out := Render(r)
	if !strings.Contains(out, "❌ Not a Platform Account") {
		t.Errorf("Render = %q, want non-member status", out)
	}
	for _, absent := range []string{"Linked Accounts", "Sent to Others", "Funding Origins", "Signals:"} {
		if strings.Contains(out, absent) {
			t.Errorf("Render should omit %q for an empty result", absent)
		}
	}
}

func TestMoneyFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1000, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{-54321, "-54,321.00"},
	}
	for _, tc := range cases {
		if got := money(tc.in); got != tc.want {
			t.Errorf("money(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
