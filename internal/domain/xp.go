package domain

// League is the volume tier controlling how steeply band decay applies.
type League string

// League constants, lowest to highest.
const (
	LeagueBronze  League = "BRONZE"
	LeagueSilver  League = "SILVER"
	LeagueGold    League = "GOLD"
	LeagueDiamond League = "DIAMOND"
)

// PairVolume holds the eligible volume and fees of one normalized pair
// after filtering and netting. Intermediate: produced by the eligibility
// filter, consumed by the league classifier and the decay engine.
type PairVolume struct {
	Pair           string  // normalized pair key
	EligibleVolume float64 // abs(buyUSD - sellUSD), always >= 0
	TotalFees      float64 // raw fee sum over surviving trades
}

// PairXPResult is the per-pair XP computation result. Created once per
// pair per run, never mutated afterward.
type PairXPResult struct {
	Pair           string  `json:"pair"`
	EligibleVolume float64 `json:"eligible_volume"`
	TotalFees      float64 `json:"total_fees"`
	XPVolume       float64 `json:"xp_vol"`            // XPRatePerUSD * EligibleVolume
	XPFeeCeiling   float64 `json:"xp_fee_ceiling"`    // FeeCeilingK * TotalFees
	XPSwapRaw      float64 `json:"xp_swap_raw"`       // min(XPVolume, XPFeeCeiling)
	XPSwapDecayed  float64 `json:"xp_swap_decayed"`   // XPSwapRaw * DecayFraction
	DecayFraction  float64 `json:"decay_fraction"`    // in [0, 1]
}

// UniquePairBonus is the result of the unique-pair bonus computation.
type UniquePairBonus struct {
	XPPairBonus          float64  `json:"xp_pair_bonus"`
	NewPairCount         int      `json:"new_pair_count"`
	CappedCount          int      `json:"capped_count"`
	NewPairs             []string `json:"new_pairs"` // sorted ASC
	TotalHistoricalPairs int      `json:"total_historical_pairs"`
}

// WeeklyXPRecord is the final per-wallet, per-week output. Persisted by
// an idempotent upsert keyed by (wallet_address, week_start); re-running
// the engine on the same trade set and the same historical-pair snapshot
// reproduces this record exactly.
type WeeklyXPRecord struct {
	Wallet    string // wallet address
	WeekStart int64  // week window start, Unix ms

	League League

	SwapXPRaw     float64 // sum of XPSwapRaw over pairs
	SwapXPDecayed float64 // sum of XPSwapDecayed over pairs
	PairBonusXP   float64
	TotalXP       float64 // SwapXPDecayed + PairBonusXP

	EligibleVolume float64
	TotalFees      float64

	UniquePairCount int // distinct pairs with eligible activity this week
	NewPairCount    int // pairs never traded before the week start
	TotalSwaps      int // well-formed successful trades considered
	ClassicSwaps    int
	LimitOrderSwaps int

	// Audit metadata, stored as a JSON blob alongside the scalar columns.
	Breakdown []PairXPResult `json:"breakdown"`
	NewPairs  []string       `json:"new_pairs"`
}
