// Package decay converts per-pair eligible volume and fees into XP,
// applying the fee-derived ceiling and the league's piecewise-linear
// band decay. Band tables are pure data (domain.Params); this package
// only implements the walk.
package decay

import "dex-xp-engine/internal/domain"

// Result holds the per-pair XP results and wallet-level sums.
type Result struct {
	PerPair    []domain.PairXPResult // same order as the input pairs
	TotalXP    float64               // sum of decayed XP
	TotalRawXP float64               // sum of pre-decay XP
}

// ApplyBandDecay computes XP for every pair under the given league's
// decay curve.
//
// Per pair: xp_vol = rate * eligibleVolume; xp_fee_ceiling = k * fees;
// xp_swap_raw = min(xp_vol, xp_fee_ceiling); the decay fraction is the
// volume-weighted mean multiplier of the bands the pair's eligible
// volume spans; xp_swap_decayed = xp_swap_raw * fraction.
func ApplyBandDecay(perPair []domain.PairVolume, league domain.League, params domain.Params) Result {
	bands := params.DecayBands[league]

	res := Result{PerPair: make([]domain.PairXPResult, 0, len(perPair))}
	for _, pv := range perPair {
		xpVol := params.XPRatePerUSD * pv.EligibleVolume
		xpCeiling := params.FeeCeilingK * pv.TotalFees

		raw := xpVol
		if xpCeiling < raw {
			raw = xpCeiling
		}

		fraction := Fraction(pv.EligibleVolume, bands)
		decayed := raw * fraction

		res.PerPair = append(res.PerPair, domain.PairXPResult{
			Pair:           pv.Pair,
			EligibleVolume: pv.EligibleVolume,
			TotalFees:      pv.TotalFees,
			XPVolume:       xpVol,
			XPFeeCeiling:   xpCeiling,
			XPSwapRaw:      raw,
			XPSwapDecayed:  decayed,
			DecayFraction:  fraction,
		})
		res.TotalRawXP += raw
		res.TotalXP += decayed
	}
	return res
}

// Fraction walks the band table left-to-right, consuming eligible volume
// band by band and accumulating multiplier-weighted volume. Returns
// weightedEV / eligibleVolume, or 1.0 when eligibleVolume is zero.
//
// Bands must cover [0, inf) contiguously (domain.Params.Validate).
func Fraction(eligibleVolume float64, bands []domain.DecayBand) float64 {
	if eligibleVolume <= 0 {
		return 1.0
	}

	remaining := eligibleVolume
	weighted := 0.0
	for _, b := range bands {
		if remaining <= 0 {
			break
		}
		inBand := remaining
		if b.MaxEV != nil {
			size := *b.MaxEV - b.MinEV
			if inBand > size {
				inBand = size
			}
		}
		weighted += inBand * b.Multiplier
		remaining -= inBand
	}
	return weighted / eligibleVolume
}
