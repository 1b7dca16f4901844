package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the per-wallet table as CSV string.
func RenderCSV(wallets []WalletRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("wallet,league,eligible_volume,total_fees,swap_xp_raw,swap_xp_decayed,")
	sb.WriteString("pair_bonus_xp,total_xp,unique_pairs,new_pairs,total_swaps\n")

	// Rows
	for _, w := range wallets {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%d,%d\n",
			w.Wallet,
			w.League,
			w.EligibleVolume,
			w.TotalFees,
			w.SwapXPRaw,
			w.SwapXPDecayed,
			w.PairBonusXP,
			w.TotalXP,
			w.UniquePairCount,
			w.NewPairCount,
			w.TotalSwaps,
		))
	}

	return sb.String()
}
