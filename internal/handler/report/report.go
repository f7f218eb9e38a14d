// Package report renders a finished trace as human-readable text.
// Presentation only: icons and prose live here, never in the core.
package report

import (
	"fmt"
	"strings"

	"WalletScope/internal/domain/models"
)

// Headline maps a classification kind to its icon-and-prose headline.
func Headline(r *models.TraceResult) string {
	switch r.Classification {
	case models.ClassCoordinated:
		return fmt.Sprintf("🚨 Likely Coordinated (Multi-Account) - %d linked accounts",
			r.SiblingCount()+r.FundedMemberCount())
	case models.ClassSophisticated:
		return "⚠️  Likely Sophisticated/Punt"
	case models.ClassCrossChainReview:
		return "⚠️  Cross-chain Funder - Review Needed"
	case models.ClassFreshLargeFunds:
		return "⚠️  Fresh + Large Funding - Worth Investigating"
	case models.ClassSingleBet:
		return "⚠️  Single Bet Account - Check Market"
	case models.ClassFundsMembers:
		return fmt.Sprintf("⚠️  Funds %d Other Member Account(s) - Check for Coordination",
			r.FundedMemberCount())
	case models.ClassSomeLinked:
		return "ℹ️  Some Linked Accounts - Manual Review"
	case models.ClassRetailDiverse:
		return "✅ Likely Retail (Diversified)"
	case models.ClassRetail:
		return "✅ Likely Retail"
	default:
		return "❓ Inconclusive - Manual Review Needed"
	}
}

// Render writes the full text report for one trace.
func Render(r *models.TraceResult) string {
	var b strings.Builder

	status := "❌ Not a Platform Account"
	if r.IsMember {
		status = "✅ Platform Account"
	}
	fmt.Fprintf(&b, "%s | %s\n", status, r.Address)
	if r.Profile != nil {
		name := r.Profile.Name
		if name == "" {
			name = r.Profile.Pseudonym
		}
		if name != "" {
			fmt.Fprintf(&b, "Username: %s\n", name)
		}
	}
	fmt.Fprintf(&b, "Classification: %s\n\n", Headline(r))

	if len(r.Signals) > 0 {
		b.WriteString("Signals:\n")
		for _, s := range r.Signals {
			fmt.Fprintf(&b, "  %s\n", s)
		}
		b.WriteString("\n")
	}

	renderFunding(&b, r)
	renderOrigins(&b, r)
	renderSiblings(&b, r)
	renderOutbound(&b, r)
	renderPortfolio(&b, r)

	return b.String()
}

func renderFunding(b *strings.Builder, r *models.TraceResult) {
	fmt.Fprintf(b, "Total Funded: $%s from %d source(s)\n", money(r.TotalFunded), len(r.FundingSources))
	if !r.FirstFundingAt.IsZero() {
		fmt.Fprintf(b, "First funded: %s\n", r.FirstFundingAt.Format("2006-01-02"))
	}
	for _, f := range r.FundingSources {
		label := f.Label
		if label == "" {
			label = short(f.Address)
		}
		fmt.Fprintf(b, "  • $%s from %s (%s, %d transfer(s))\n",
			money(f.TotalAmount), label, f.SourceType, f.TransferCount)
		for _, o := range f.BridgeOrigins {
			fmt.Fprintf(b, "    ↳ $%s from %s (%s)\n", money(o.Amount), o.OriginChainName, short(o.OriginAddress))
		}
	}
	b.WriteString("\n")
}

func renderOrigins(b *strings.Builder, r *models.TraceResult) {
	if len(r.OriginChains) == 0 {
		return
	}
	b.WriteString("Funding Origins:\n")
	for i := range r.OriginChains {
		c := &r.OriginChains[i]
		if c.Depth() == 0 {
			continue
		}
		parts := make([]string, 0, c.Depth()+1)
		for _, h := range c.Hops {
			parts = append(parts, hopLabel(h))
		}
		parts = append(parts, short(c.Hops[c.Depth()-1].To))
		fmt.Fprintf(b, "  %s\n", strings.Join(parts, " → "))
	}
	if len(r.UltimateOrigins) > 0 {
		fmt.Fprintf(b, "  Ultimate origins: %s\n", strings.Join(r.UltimateOrigins, ", "))
	}
	b.WriteString("\n")
}

func renderSiblings(b *strings.Builder, r *models.TraceResult) {
	if len(r.Siblings) == 0 {
		return
	}
	fmt.Fprintf(b, "🔗 Linked Accounts (Same Funder) - %d found\n", len(r.Siblings))
	for _, s := range r.Siblings {
		fmt.Fprintf(b, "  • %s received $%s from %d shared funder(s)\n",
			short(s.Address), money(s.TotalReceived), len(s.SharedFunders))
	}
	b.WriteString("\n")
}

func renderOutbound(b *strings.Builder, r *models.TraceResult) {
	if len(r.FundedAccounts) == 0 {
		return
	}
	fmt.Fprintf(b, "Total Sent to Others: $%s\n", money(r.TotalSentToOther))
	for _, f := range r.FundedAccounts {
		member := ""
		if f.IsMember {
			member = " [member]"
		}
		fmt.Fprintf(b, "  • $%s to %s%s\n", money(f.TotalSent), short(f.Address), member)
	}
	b.WriteString("\n")
}

func renderPortfolio(b *strings.Builder, r *models.TraceResult) {
	if r.Trading != nil {
		fmt.Fprintf(b, "Trading: %d trade(s) across %d market(s)\n",
			r.Trading.TotalTrades, r.Trading.MarketsTraded)
	}
	if r.Portfolio != nil {
		fmt.Fprintf(b, "Portfolio: $%s | realized PnL $%s | win rate %.0f%%\n",
			money(r.Portfolio.TotalValue), money(r.Portfolio.RealizedPnL), r.Portfolio.WinRate)
	}
	if len(r.Positions) > 0 {
		n := len(r.Positions)
		shown := n
		if shown > 15 {
			shown = 15
		}
		b.WriteString("Open Positions:\n")
		for _, p := range r.Positions[:shown] {
			fmt.Fprintf(b, "  • %s: %s, $%s\n", p.MarketQuestion, p.Outcome, money(p.Size))
		}
		if n > shown {
			fmt.Fprintf(b, "  ... and %d more positions\n", n-shown)
		}
	}
}

func hopLabel(h models.Hop) string {
	icon := "👤"
	switch h.FromCategory {
	case models.CategoryExchange:
		icon = "🏦"
	case models.CategoryBridge, models.CategorySwap:
		icon = "🌉"
	case models.CategoryFreshWallet:
		icon = "🆕"
	}
	label := h.FromLabel
	if label == "" {
		label = short(h.From)
	}
	return fmt.Sprintf("%s %s ($%s)", icon, label, money(h.Amount))
}

// money formats a dollar amount with thousands separators, two decimals.
func money(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg, intPart = true, intPart[1:]
	}
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}
	if neg {
		intPart = "-" + intPart
	}
	return intPart + frac
}

func short(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}
