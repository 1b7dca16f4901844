package reporting

import "time"

// Report represents the weekly XP distribution report.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	WeekStart   int64 // Unix ms

	// Summary
	Summary WeekSummary

	// League Distribution (fixed order: Bronze, Silver, Gold, Diamond)
	LeagueDistribution []LeagueRow

	// Wallet Rows (sorted by total XP descending, wallet ASC on ties)
	Wallets []WalletRow
}

// WeekSummary contains week-level aggregates over all wallets.
type WeekSummary struct {
	TotalWallets        int
	TotalEligibleVolume float64
	TotalFees           float64
	TotalSwapXPRaw      float64
	TotalSwapXPDecayed  float64
	TotalPairBonusXP    float64
	TotalXP             float64
	TotalSwaps          int
	ClassicSwaps        int
	LimitOrderSwaps     int
	NewPairsRewarded    int
}

// LeagueRow represents one league's share of the week.
type LeagueRow struct {
	League         string
	Wallets        int
	EligibleVolume float64
	TotalXP        float64
}

// WalletRow represents one wallet in the weekly table.
type WalletRow struct {
	Wallet          string
	League          string
	EligibleVolume  float64
	TotalFees       float64
	SwapXPRaw       float64
	SwapXPDecayed   float64
	PairBonusXP     float64
	TotalXP         float64
	UniquePairCount int
	NewPairCount    int
	TotalSwaps      int
}
