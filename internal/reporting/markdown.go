package reporting

import (
	"fmt"
	"strings"
	"time"
)

// topWalletRows caps the markdown wallet table; the CSV carries the
// full list.
const topWalletRows = 50

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Weekly XP Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Week Start (ms): %d\n\n", r.WeekStart))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Wallets | %d |\n", r.Summary.TotalWallets))
	sb.WriteString(fmt.Sprintf("| Eligible Volume (USD) | %.2f |\n", r.Summary.TotalEligibleVolume))
	sb.WriteString(fmt.Sprintf("| Fees (USD) | %.2f |\n", r.Summary.TotalFees))
	sb.WriteString(fmt.Sprintf("| Swap XP (raw) | %.2f |\n", r.Summary.TotalSwapXPRaw))
	sb.WriteString(fmt.Sprintf("| Swap XP (decayed) | %.2f |\n", r.Summary.TotalSwapXPDecayed))
	sb.WriteString(fmt.Sprintf("| Pair Bonus XP | %.2f |\n", r.Summary.TotalPairBonusXP))
	sb.WriteString(fmt.Sprintf("| Total XP | %.2f |\n", r.Summary.TotalXP))
	sb.WriteString(fmt.Sprintf("| Swaps | %d (%d classic / %d limit) |\n",
		r.Summary.TotalSwaps, r.Summary.ClassicSwaps, r.Summary.LimitOrderSwaps))
	sb.WriteString(fmt.Sprintf("| New Pairs Rewarded | %d |\n", r.Summary.NewPairsRewarded))
	sb.WriteString("\n")

	// League Distribution
	sb.WriteString("## League Distribution\n\n")
	sb.WriteString("| League | Wallets | Eligible Volume | Total XP |\n")
	sb.WriteString("|--------|---------|-----------------|----------|\n")
	for _, row := range r.LeagueDistribution {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f |\n",
			row.League, row.Wallets, row.EligibleVolume, row.TotalXP))
	}
	sb.WriteString("\n")

	// Wallets
	sb.WriteString("## Top Wallets\n\n")
	if len(r.Wallets) > 0 {
		sb.WriteString("| Wallet | League | Eligible Volume | Swap XP | Bonus XP | Total XP | Pairs | New |\n")
		sb.WriteString("|--------|--------|-----------------|---------|----------|----------|-------|-----|\n")
		rows := r.Wallets
		if len(rows) > topWalletRows {
			rows = rows[:topWalletRows]
		}
		for _, w := range rows {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %.2f | %.2f | %d | %d |\n",
				w.Wallet, w.League, w.EligibleVolume, w.SwapXPDecayed, w.PairBonusXP, w.TotalXP,
				w.UniquePairCount, w.NewPairCount))
		}
		if len(r.Wallets) > topWalletRows {
			sb.WriteString(fmt.Sprintf("\n%d more wallets omitted.\n", len(r.Wallets)-topWalletRows))
		}
	} else {
		sb.WriteString("No wallet activity this week.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
