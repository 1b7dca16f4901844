package league

import (
	"testing"

	"dex-xp-engine/internal/domain"
)

func TestClassify(t *testing.T) {
	thresholds := domain.DefaultParams().LeagueThresholds

	cases := []struct {
		volume float64
		want   domain.League
	}{
		{0, domain.LeagueBronze},
		{4_999.99, domain.LeagueBronze},
		{5_000, domain.LeagueSilver},
		{24_999.99, domain.LeagueSilver},
		{25_000, domain.LeagueGold},
		{124_999.99, domain.LeagueGold},
		{125_000, domain.LeagueDiamond},
		{10_000_000, domain.LeagueDiamond},
	}

	for _, c := range cases {
		if got := Classify(c.volume, thresholds); got != c.want {
			t.Errorf("Classify(%f) = %s, want %s", c.volume, got, c.want)
		}
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	thresholds := domain.LeagueThresholds{Silver: 10, Gold: 20, Diamond: 30}

	if got := Classify(15, thresholds); got != domain.LeagueSilver {
		t.Errorf("Classify(15) = %s, want SILVER", got)
	}
	if got := Classify(30, thresholds); got != domain.LeagueDiamond {
		t.Errorf("Classify(30) = %s, want DIAMOND", got)
	}
}
