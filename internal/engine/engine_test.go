package engine

import (
	"math"
	"reflect"
	"testing"

	"dex-xp-engine/internal/domain"
)

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func fp(v float64) *float64 { return &v }

// scenarioTrades builds a week of activity covering every filter stage:
// a dust trade, a round trip, a partial reversal outside the window, and
// a second pair activating the unique-pair bonus.
func scenarioTrades() []*domain.Trade {
	return []*domain.Trade{
		// SOL-USDC: $80 buy, $30 round-trip leg (excluded), $30 sell
		// outside the window. Nets to $50 eligible.
		{ID: "t1", Wallet: "w1", FromToken: "USDC", ToToken: "SOL", VolumeUSD: 80, FeeUSD: 0.20, Timestamp: 0, Status: domain.TradeStatusSuccess, SwapType: domain.SwapTypeClassic},
		{ID: "t2", Wallet: "w1", FromToken: "SOL", ToToken: "USDC", VolumeUSD: 30, FeeUSD: 0.10, Timestamp: 60_000, Status: domain.TradeStatusSuccess, SwapType: domain.SwapTypeClassic},
		{ID: "t3", Wallet: "w1", FromToken: "SOL", ToToken: "USDC", VolumeUSD: 30, FeeUSD: 0.05, Timestamp: 400_000, Status: domain.TradeStatusSuccess, SwapType: domain.SwapTypeClassic},

		// BONK-USDC: single $9 fill, just above the dust floor.
		{ID: "t4", Wallet: "w1", FromToken: "USDC", ToToken: "BONK", VolumeUSD: 9, FeeUSD: 0.05, Timestamp: 500_000, Status: domain.TradeStatusSuccess, SwapType: domain.SwapTypeLimitOrder},

		// Dust and a failed trade, both dropped.
		{ID: "t5", Wallet: "w1", FromToken: "USDC", ToToken: "BONK", VolumeUSD: 5, FeeUSD: 0.01, Timestamp: 600_000, Status: domain.TradeStatusSuccess, SwapType: domain.SwapTypeClassic},
		{ID: "t6", Wallet: "w1", FromToken: "USDC", ToToken: "SOL", VolumeUSD: 100, FeeUSD: 0.25, Timestamp: 700_000, Status: domain.TradeStatusFailed, SwapType: domain.SwapTypeClassic},
	}
}

func TestComputeWeek_EndToEnd(t *testing.T) {
	params := domain.DefaultParams()

	rec, audit := ComputeWeek("w1", 0, scenarioTrades(), nil, params)

	if rec.League != domain.LeagueBronze {
		t.Errorf("league = %s, want BRONZE", rec.League)
	}
	if !floatEq(rec.EligibleVolume, 59) {
		t.Errorf("eligible volume = %f, want 59", rec.EligibleVolume)
	}

	// SOL-USDC: min(0.5*50, 200*0.25) = 25; BONK-USDC: min(4.5, 10) = 4.5.
	// Both inside the first band, no decay.
	if !floatEq(rec.SwapXPRaw, 29.5) {
		t.Errorf("raw swap XP = %f, want 29.5", rec.SwapXPRaw)
	}
	if !floatEq(rec.SwapXPDecayed, 29.5) {
		t.Errorf("decayed swap XP = %f, want 29.5", rec.SwapXPDecayed)
	}

	// Both pairs are new: 2 * 25 XP.
	if !floatEq(rec.PairBonusXP, 50) {
		t.Errorf("pair bonus = %f, want 50", rec.PairBonusXP)
	}
	if !floatEq(rec.TotalXP, 79.5) {
		t.Errorf("total XP = %f, want 79.5", rec.TotalXP)
	}

	if rec.UniquePairCount != 2 {
		t.Errorf("unique pairs = %d, want 2", rec.UniquePairCount)
	}
	if rec.NewPairCount != 2 {
		t.Errorf("new pairs = %d, want 2", rec.NewPairCount)
	}
	want := []string{"bonk-usdc", "sol-usdc"}
	if !reflect.DeepEqual(rec.NewPairs, want) {
		t.Errorf("new pairs = %v, want %v", rec.NewPairs, want)
	}

	// t6 failed, the rest are well-formed.
	if rec.TotalSwaps != 5 {
		t.Errorf("total swaps = %d, want 5", rec.TotalSwaps)
	}
	if rec.ClassicSwaps != 4 || rec.LimitOrderSwaps != 1 {
		t.Errorf("swap breakdown = %d classic / %d limit, want 4/1", rec.ClassicSwaps, rec.LimitOrderSwaps)
	}

	if audit.DustDropped != 1 {
		t.Errorf("dust dropped = %d, want 1", audit.DustDropped)
	}
	if audit.NonSuccessSkipped != 1 {
		t.Errorf("non-success skipped = %d, want 1", audit.NonSuccessSkipped)
	}
	if audit.RoundTripExcluded != 1 {
		t.Errorf("round trips excluded = %d, want 1", audit.RoundTripExcluded)
	}
}

func TestComputeWeek_HistoricalPairsSuppressBonus(t *testing.T) {
	params := domain.DefaultParams()
	historical := map[string]struct{}{"sol-usdc": {}}

	rec, _ := ComputeWeek("w1", 0, scenarioTrades(), historical, params)

	if rec.NewPairCount != 1 {
		t.Errorf("new pairs = %d, want 1", rec.NewPairCount)
	}
	if !floatEq(rec.PairBonusXP, 25) {
		t.Errorf("pair bonus = %f, want 25", rec.PairBonusXP)
	}
	if !floatEq(rec.TotalXP, 54.5) {
		t.Errorf("total XP = %f, want 54.5", rec.TotalXP)
	}
}

func TestComputeWeek_NoTrades(t *testing.T) {
	params := domain.DefaultParams()

	rec, _ := ComputeWeek("w1", 1000, nil, nil, params)

	if rec.Wallet != "w1" || rec.WeekStart != 1000 {
		t.Fatalf("identity fields wrong: %+v", rec)
	}
	if rec.League != domain.LeagueBronze {
		t.Errorf("league = %s, want BRONZE", rec.League)
	}
	if rec.TotalXP != 0 || rec.EligibleVolume != 0 || rec.UniquePairCount != 0 {
		t.Errorf("expected zero record, got %+v", rec)
	}
	if len(rec.NewPairs) != 0 || len(rec.Breakdown) != 0 {
		t.Errorf("expected empty breakdown, got %+v", rec)
	}
}

func TestComputeWeek_Deterministic(t *testing.T) {
	params := domain.DefaultParams()

	first, _ := ComputeWeek("w1", 0, scenarioTrades(), nil, params)
	second, _ := ComputeWeek("w1", 0, scenarioTrades(), nil, params)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("records differ across identical runs:\n%+v\n%+v", first, second)
	}
}

func TestComputeWeek_LeagueAffectsDecay(t *testing.T) {
	params := domain.DefaultParams()

	// One pair with $10k eligible volume and plenty of fee headroom.
	trades := []*domain.Trade{
		{ID: "t1", Wallet: "w1", FromToken: "USDC", ToToken: "SOL", VolumeUSD: 10_000, FeeUSD: 100, Timestamp: 0, Status: domain.TradeStatusSuccess, SwapType: domain.SwapTypeClassic},
	}

	rec, _ := ComputeWeek("w1", 0, trades, nil, params)

	if rec.League != domain.LeagueSilver {
		t.Fatalf("league = %s, want SILVER", rec.League)
	}
	// Silver curve: 5000*1.0 + 5000*0.65 = 8250 weighted → fraction 0.825.
	// Raw XP 5000, decayed 4125.
	if !floatEq(rec.SwapXPDecayed, 4125) {
		t.Errorf("decayed XP = %f, want 4125", rec.SwapXPDecayed)
	}
}

func TestWindowFor(t *testing.T) {
	start, end := WindowFor(1_000_000)
	if start != 1_000_000 {
		t.Errorf("start = %d, want 1000000", start)
	}
	if end-start != 7*24*60*60*1000 {
		t.Errorf("window length = %d, want one week in ms", end-start)
	}
}

func TestComputeWeek_ImpactFloorApplies(t *testing.T) {
	params := domain.DefaultParams()
	params.MinImpactBps = 5

	trades := []*domain.Trade{
		{ID: "t1", Wallet: "w1", FromToken: "USDC", ToToken: "SOL", VolumeUSD: 100, FeeUSD: 1, ImpactBps: fp(2), Timestamp: 0, Status: domain.TradeStatusSuccess, SwapType: domain.SwapTypeClassic},
		{ID: "t2", Wallet: "w1", FromToken: "USDC", ToToken: "SOL", VolumeUSD: 200, FeeUSD: 1, ImpactBps: fp(10), Timestamp: 1000, Status: domain.TradeStatusSuccess, SwapType: domain.SwapTypeClassic},
	}

	rec, audit := ComputeWeek("w1", 0, trades, nil, params)

	if audit.ImpactDropped != 1 {
		t.Errorf("impact dropped = %d, want 1", audit.ImpactDropped)
	}
	if !floatEq(rec.EligibleVolume, 200) {
		t.Errorf("eligible volume = %f, want 200", rec.EligibleVolume)
	}
}
