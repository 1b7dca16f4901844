// Package eligibility implements the anti-gaming volume filter: dust and
// impact floors, round-trip exclusion, directional netting, and per-pair
// aggregation of eligible volume and fees.
//
// The whole pipeline is pure and synchronous: it operates on an
// already-fetched trade slice, never fails, and yields identical output
// for identical input.
package eligibility

import (
	"math"
	"sort"
	"strings"

	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/pair"
)

// Audit carries per-stage counts for logging and the weekly report.
// It never feeds back into the computation.
type Audit struct {
	InputTrades       int     // records handed to the filter
	NonSuccessSkipped int     // status != success
	MalformedSkipped  int     // missing addresses, non-finite or non-positive volume
	DustDropped       int     // below the minimum fill floor
	ImpactDropped     int     // below the minimum impact floor (stage off by default)
	RoundTripExcluded int     // smaller legs of detected reversals
	NettedTrades      int     // trades that reached directional netting
	RawVolumeUSD      float64 // volume after floors, before round-trip/netting

	// Swap-type breakdown over the well-formed successful trades.
	ClassicSwaps    int
	LimitOrderSwaps int
}

// ConsideredTrades is the number of well-formed successful trades that
// entered the filter stages.
func (a Audit) ConsideredTrades() int {
	return a.InputTrades - a.NonSuccessSkipped - a.MalformedSkipped
}

// Result is the output of the eligible volume computation.
type Result struct {
	PerPair             []domain.PairVolume // sorted by pair key ASC
	TotalEligibleVolume float64
	TotalFees           float64
	Audit               Audit
}

// ReductionPct reports how much raw volume the round-trip and netting
// stages removed, for audit logging. Returns 0 when no raw volume survived
// the floors.
func (r Result) ReductionPct() float64 {
	if r.Audit.RawVolumeUSD <= 0 {
		return 0
	}
	return 100 * (1 - r.TotalEligibleVolume/r.Audit.RawVolumeUSD)
}

// ComputeEligibleVolume runs the filter pipeline over one wallet's trades
// for a time window. Stages run in strict order, each on the output of the
// previous:
//
//  1. drop non-success and malformed records (counted, never fatal)
//  2. minimum fill-size floor
//  3. minimum price-impact floor (disabled when MinImpactBps == 0)
//  4. round-trip detection and removal of the smaller legs
//  5. directional netting per normalized pair
//  6. per-pair aggregation and wallet totals
func ComputeEligibleVolume(trades []*domain.Trade, params domain.Params) Result {
	res := Result{}
	res.Audit.InputTrades = len(trades)

	working := validTrades(trades, &res.Audit)
	working = filterDust(working, params.MinFillUSD, &res.Audit)
	working = filterImpact(working, params.MinImpactBps, &res.Audit)

	for _, t := range working {
		res.Audit.RawVolumeUSD += t.VolumeUSD
	}
	if len(working) == 0 {
		return res
	}

	excluded := detectRoundTrips(working, params.RoundTripWindowMs)
	res.Audit.RoundTripExcluded = len(excluded)

	remaining := working[:0:0]
	for _, t := range working {
		if _, ok := excluded[t.ID]; !ok {
			remaining = append(remaining, t)
		}
	}
	res.Audit.NettedTrades = len(remaining)
	if len(remaining) == 0 {
		return res
	}

	res.PerPair = netByPair(remaining)
	for _, pv := range res.PerPair {
		res.TotalEligibleVolume += pv.EligibleVolume
		res.TotalFees += pv.TotalFees
	}
	return res
}

// validTrades drops non-success and malformed records. A malformed record
// is excluded from aggregation rather than aborting the wallet; a
// non-finite fee is coerced to zero but the trade is kept.
func validTrades(trades []*domain.Trade, audit *Audit) []*domain.Trade {
	out := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t == nil {
			audit.MalformedSkipped++
			continue
		}
		if t.Status != domain.TradeStatusSuccess {
			audit.NonSuccessSkipped++
			continue
		}
		if t.FromToken == "" || t.ToToken == "" || t.FromToken == t.ToToken {
			audit.MalformedSkipped++
			continue
		}
		if math.IsNaN(t.VolumeUSD) || math.IsInf(t.VolumeUSD, 0) || t.VolumeUSD <= 0 {
			audit.MalformedSkipped++
			continue
		}
		switch t.SwapType {
		case domain.SwapTypeClassic:
			audit.ClassicSwaps++
		case domain.SwapTypeLimitOrder:
			audit.LimitOrderSwaps++
		}
		if math.IsNaN(t.FeeUSD) || math.IsInf(t.FeeUSD, 0) || t.FeeUSD < 0 {
			cp := *t
			cp.FeeUSD = 0
			out = append(out, &cp)
			continue
		}
		out = append(out, t)
	}
	return out
}

// filterDust drops trades below the minimum fill floor (inclusive floor:
// a trade exactly at the floor survives).
func filterDust(trades []*domain.Trade, minFillUSD float64, audit *Audit) []*domain.Trade {
	out := trades[:0:0]
	for _, t := range trades {
		if t.VolumeUSD < minFillUSD {
			audit.DustDropped++
			continue
		}
		out = append(out, t)
	}
	return out
}

// filterImpact drops trades whose price impact is below the floor.
// MinImpactBps == 0 disables the stage entirely. Trades without impact
// data pass: impact is collaborator-provided and best-effort.
func filterImpact(trades []*domain.Trade, minImpactBps float64, audit *Audit) []*domain.Trade {
	if minImpactBps <= 0 {
		return trades
	}
	out := trades[:0:0]
	for _, t := range trades {
		if t.ImpactBps != nil && *t.ImpactBps < minImpactBps {
			audit.ImpactDropped++
			continue
		}
		out = append(out, t)
	}
	return out
}

// detectRoundTrips scans chronologically-ordered trades for reversals
// within the detection window and returns the IDs of the excluded legs.
//
// For every trade T1, every later trade T2 within the window whose
// (from, to) tokens exactly reverse T1's is a round-trip match: the
// smaller-volume leg is excluded (tie: the later trade). Only the smaller
// leg is removed so that net directional flow containing a partial
// reversal still counts partially. Scanning continues after a match; a
// trade may participate in several round trips, but once excluded it can
// no longer match.
func detectRoundTrips(trades []*domain.Trade, windowMs int64) map[string]struct{} {
	sorted := make([]*domain.Trade, len(trades))
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return sorted[i].ID < sorted[j].ID
	})

	excluded := make(map[string]struct{})
	for i, t1 := range sorted {
		if _, ok := excluded[t1.ID]; ok {
			continue
		}
		for j := i + 1; j < len(sorted); j++ {
			t2 := sorted[j]
			if t2.Timestamp-t1.Timestamp > windowMs {
				break
			}
			if _, ok := excluded[t2.ID]; ok {
				continue
			}
			if t2.FromToken != t1.ToToken || t2.ToToken != t1.FromToken {
				continue
			}
			// Reversal found: drop the smaller leg, later leg on a tie.
			if t2.VolumeUSD <= t1.VolumeUSD {
				excluded[t2.ID] = struct{}{}
			} else {
				excluded[t1.ID] = struct{}{}
				break // t1 is gone, stop matching it forward
			}
		}
	}
	return excluded
}

// pairAccumulator collects directional flow for one normalized pair.
type pairAccumulator struct {
	buyVolumeUSD  float64
	sellVolumeUSD float64
	totalFees     float64
}

// netByPair groups trades by normalized pair across the entire window,
// nets buys against sells, and aggregates abs(net) and raw fees per pair.
// A trade is a BUY when its destination token is the pair's base token
// (the lexicographically-first of the two), a SELL when its source is.
func netByPair(trades []*domain.Trade) []domain.PairVolume {
	groups := make(map[string]*pairAccumulator)
	for _, t := range trades {
		key := pair.Normalize(t.FromToken, t.ToToken)
		acc, ok := groups[key]
		if !ok {
			acc = &pairAccumulator{}
			groups[key] = acc
		}
		if strings.ToLower(t.ToToken) == pair.Base(key) {
			acc.buyVolumeUSD += t.VolumeUSD
		} else {
			acc.sellVolumeUSD += t.VolumeUSD
		}
		acc.totalFees += t.FeeUSD
	}

	out := make([]domain.PairVolume, 0, len(groups))
	for key, acc := range groups {
		out = append(out, domain.PairVolume{
			Pair:           key,
			EligibleVolume: math.Abs(acc.buyVolumeUSD - acc.sellVolumeUSD),
			TotalFees:      acc.totalFees,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}
