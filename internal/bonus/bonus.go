// Package bonus computes the unique-pair XP bonus: a flat, capped reward
// for pairs a wallet has never traded before the week start.
//
// The historical pair set is materialized by the caller (engine.Runner
// queries storage.PairHistoryStore) so the computation itself stays pure.
package bonus

import (
	"sort"

	"dex-xp-engine/internal/domain"
)

// Calculate returns the unique-pair bonus for this week's pair activity
// against the wallet's historical pair set. A disabled feature flag or an
// empty week yields a zero result.
//
// "Historical" means: every pair the wallet traded strictly before the
// week start. A pair traded earlier in the same week does not disqualify
// itself; only prior weeks count.
func Calculate(weekPairs []domain.PairVolume, historical map[string]struct{}, params domain.Params) domain.UniquePairBonus {
	res := domain.UniquePairBonus{TotalHistoricalPairs: len(historical)}
	if !params.PairBonusEnabled || len(weekPairs) == 0 {
		return res
	}

	seen := make(map[string]struct{}, len(weekPairs))
	for _, pv := range weekPairs {
		if _, dup := seen[pv.Pair]; dup {
			continue
		}
		seen[pv.Pair] = struct{}{}
		if _, known := historical[pv.Pair]; !known {
			res.NewPairs = append(res.NewPairs, pv.Pair)
		}
	}
	sort.Strings(res.NewPairs)

	res.NewPairCount = len(res.NewPairs)
	res.CappedCount = res.NewPairCount
	if res.CappedCount > params.MaxNewPairs {
		res.CappedCount = params.MaxNewPairs
	}
	res.XPPairBonus = params.XPPerNewPair * float64(res.CappedCount)
	return res
}
