// Package engine assembles the weekly XP pipeline:
// eligibility → league classification → band decay → unique-pair bonus.
//
// ComputeWeek is pure; Runner wires it to storage and fans out over the
// week's active wallets.
package engine

import (
	"dex-xp-engine/internal/bonus"
	"dex-xp-engine/internal/decay"
	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/eligibility"
	"dex-xp-engine/internal/league"
)

// WeekDurationMs is the length of one scoring window.
const WeekDurationMs = 7 * 24 * 60 * 60 * 1000

// WindowFor returns the [start, end) trade window for a week.
func WindowFor(weekStartMs int64) (startMs, endMs int64) {
	return weekStartMs, weekStartMs + WeekDurationMs
}

// ComputeWeek produces a wallet's weekly XP record from its trades and
// its historical pair set. The same inputs always yield the same record,
// which is what makes the weekly upsert idempotent.
//
// historicalPairs holds every normalized pair the wallet traded strictly
// before weekStartMs; a nil map means no history.
func ComputeWeek(wallet string, weekStartMs int64, trades []*domain.Trade, historicalPairs map[string]struct{}, params domain.Params) (*domain.WeeklyXPRecord, eligibility.Audit) {
	elig := eligibility.ComputeEligibleVolume(trades, params)

	lg := league.Classify(elig.TotalEligibleVolume, params.LeagueThresholds)
	dec := decay.ApplyBandDecay(elig.PerPair, lg, params)
	bn := bonus.Calculate(elig.PerPair, historicalPairs, params)

	rec := &domain.WeeklyXPRecord{
		Wallet:    wallet,
		WeekStart: weekStartMs,

		League: lg,

		SwapXPRaw:     dec.TotalRawXP,
		SwapXPDecayed: dec.TotalXP,
		PairBonusXP:   bn.XPPairBonus,
		TotalXP:       dec.TotalXP + bn.XPPairBonus,

		EligibleVolume: elig.TotalEligibleVolume,
		TotalFees:      elig.TotalFees,

		UniquePairCount: len(elig.PerPair),
		NewPairCount:    bn.NewPairCount,
		TotalSwaps:      elig.Audit.ConsideredTrades(),
		ClassicSwaps:    elig.Audit.ClassicSwaps,
		LimitOrderSwaps: elig.Audit.LimitOrderSwaps,

		Breakdown: dec.PerPair,
		NewPairs:  bn.NewPairs,
	}
	return rec, elig.Audit
}
