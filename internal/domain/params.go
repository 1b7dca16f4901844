package domain

import "fmt"

// DecayBand is one segment of a league's piecewise-linear decay curve.
// Bands are pure data: tuning a league's curve never touches the walk
// algorithm in the decay package.
type DecayBand struct {
	MinEV      float64  // inclusive lower bound of eligible volume
	MaxEV      *float64 // exclusive upper bound; nil = unbounded
	Multiplier float64  // XP weight for volume inside this band
}

// LeagueThresholds map total eligible volume to a league. Evaluated
// highest-to-lowest; anything below Silver is Bronze.
type LeagueThresholds struct {
	Silver  float64
	Gold    float64
	Diamond float64
}

// Params holds every tunable constant of the XP pipeline. Decision logic
// reads values from here; nothing is hardcoded inside the classifiers or
// the band walk.
type Params struct {
	// Eligible volume filter
	MinFillUSD        float64 // dust floor, inclusive: trades below are dropped
	MinImpactBps      float64 // impact floor; 0 disables the stage
	RoundTripWindowMs int64   // reversal scan window for round-trip detection

	// League classification
	LeagueThresholds LeagueThresholds

	// Band decay
	XPRatePerUSD float64 // XP per eligible USD
	FeeCeilingK  float64 // fee-derived XP ceiling multiplier
	DecayBands   map[League][]DecayBand

	// Unique-pair bonus
	PairBonusEnabled bool
	XPPerNewPair     float64
	MaxNewPairs      int // weekly cap on rewarded new pairs
}

// band is a helper for building bounded decay bands.
func band(minEV, maxEV, multiplier float64) DecayBand {
	return DecayBand{MinEV: minEV, MaxEV: &maxEV, Multiplier: multiplier}
}

// tailBand builds the unbounded final band of a curve.
func tailBand(minEV, multiplier float64) DecayBand {
	return DecayBand{MinEV: minEV, Multiplier: multiplier}
}

// DefaultParams returns the reference parameter set. Higher leagues get
// flatter decay curves: volume past a band boundary is discounted less
// the higher the wallet's league.
func DefaultParams() Params {
	return Params{
		MinFillUSD:        8.0,
		MinImpactBps:      0, // stage present but disabled
		RoundTripWindowMs: 5 * 60 * 1000,

		LeagueThresholds: LeagueThresholds{
			Silver:  5_000,
			Gold:    25_000,
			Diamond: 125_000,
		},

		XPRatePerUSD: 0.5,
		FeeCeilingK:  200,
		DecayBands: map[League][]DecayBand{
			LeagueBronze: {
				band(0, 5_000, 1.0),
				band(5_000, 25_000, 0.5),
				band(25_000, 125_000, 0.25),
				tailBand(125_000, 0.1),
			},
			LeagueSilver: {
				band(0, 5_000, 1.0),
				band(5_000, 25_000, 0.65),
				band(25_000, 125_000, 0.35),
				tailBand(125_000, 0.15),
			},
			LeagueGold: {
				band(0, 5_000, 1.0),
				band(5_000, 25_000, 0.8),
				band(25_000, 125_000, 0.5),
				tailBand(125_000, 0.25),
			},
			LeagueDiamond: {
				band(0, 5_000, 1.0),
				band(5_000, 25_000, 0.9),
				band(25_000, 125_000, 0.7),
				tailBand(125_000, 0.4),
			},
		},

		PairBonusEnabled: true,
		XPPerNewPair:     25,
		MaxNewPairs:      4,
	}
}

// Validate checks structural invariants of the parameter set. Band tables
// must start at 0, be contiguous, and end with an unbounded band.
func (p Params) Validate() error {
	if p.MinFillUSD < 0 {
		return fmt.Errorf("min fill must be >= 0, got %f", p.MinFillUSD)
	}
	if p.RoundTripWindowMs <= 0 {
		return fmt.Errorf("round-trip window must be positive, got %d", p.RoundTripWindowMs)
	}
	if p.LeagueThresholds.Silver > p.LeagueThresholds.Gold || p.LeagueThresholds.Gold > p.LeagueThresholds.Diamond {
		return fmt.Errorf("league thresholds must be ascending: %+v", p.LeagueThresholds)
	}
	if p.MaxNewPairs < 0 {
		return fmt.Errorf("max new pairs must be >= 0, got %d", p.MaxNewPairs)
	}

	for _, league := range []League{LeagueBronze, LeagueSilver, LeagueGold, LeagueDiamond} {
		bands, ok := p.DecayBands[league]
		if !ok || len(bands) == 0 {
			return fmt.Errorf("league %s has no decay bands", league)
		}
		if bands[0].MinEV != 0 {
			return fmt.Errorf("league %s: first band must start at 0, got %f", league, bands[0].MinEV)
		}
		for i, b := range bands {
			if b.Multiplier < 0 || b.Multiplier > 1 {
				return fmt.Errorf("league %s band %d: multiplier %f out of [0,1]", league, i, b.Multiplier)
			}
			last := i == len(bands)-1
			if last {
				if b.MaxEV != nil {
					return fmt.Errorf("league %s: last band must be unbounded", league)
				}
				continue
			}
			if b.MaxEV == nil {
				return fmt.Errorf("league %s band %d: only the last band may be unbounded", league, i)
			}
			if *b.MaxEV <= b.MinEV {
				return fmt.Errorf("league %s band %d: empty band [%f, %f)", league, i, b.MinEV, *b.MaxEV)
			}
			if bands[i+1].MinEV != *b.MaxEV {
				return fmt.Errorf("league %s band %d: gap between %f and %f", league, i, *b.MaxEV, bands[i+1].MinEV)
			}
		}
	}
	return nil
}
