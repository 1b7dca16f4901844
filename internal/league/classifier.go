// Package league maps total eligible volume to a wallet's weekly league.
package league

import "dex-xp-engine/internal/domain"

// Classify returns the league for a wallet's total eligible volume.
// Thresholds are evaluated highest-to-lowest; anything below the Silver
// threshold is Bronze, including zero volume.
func Classify(totalEligibleVolume float64, t domain.LeagueThresholds) domain.League {
	switch {
	case totalEligibleVolume >= t.Diamond:
		return domain.LeagueDiamond
	case totalEligibleVolume >= t.Gold:
		return domain.LeagueGold
	case totalEligibleVolume >= t.Silver:
		return domain.LeagueSilver
	default:
		return domain.LeagueBronze
	}
}
