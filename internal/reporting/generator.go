package reporting

import (
	"context"
	"sort"
	"time"

	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/storage"
)

// Generator produces weekly reports from stored XP records.
type Generator struct {
	recordStore storage.WeeklyXPStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(recordStore storage.WeeklyXPStore) *Generator {
	return &Generator{
		recordStore: recordStore,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the report for one week.
func (g *Generator) Generate(ctx context.Context, weekStartMs int64) (*Report, error) {
	records, err := g.recordStore.GetByWeek(ctx, weekStartMs)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt:        g.now(),
		WeekStart:          weekStartMs,
		LeagueDistribution: leagueDistribution(records),
		Wallets:            walletRows(records),
	}
	report.Summary = summarize(records)
	return report, nil
}

func summarize(records []*domain.WeeklyXPRecord) WeekSummary {
	s := WeekSummary{TotalWallets: len(records)}
	for _, r := range records {
		s.TotalEligibleVolume += r.EligibleVolume
		s.TotalFees += r.TotalFees
		s.TotalSwapXPRaw += r.SwapXPRaw
		s.TotalSwapXPDecayed += r.SwapXPDecayed
		s.TotalPairBonusXP += r.PairBonusXP
		s.TotalXP += r.TotalXP
		s.TotalSwaps += r.TotalSwaps
		s.ClassicSwaps += r.ClassicSwaps
		s.LimitOrderSwaps += r.LimitOrderSwaps
		s.NewPairsRewarded += r.NewPairCount
	}
	return s
}

func leagueDistribution(records []*domain.WeeklyXPRecord) []LeagueRow {
	order := []domain.League{domain.LeagueBronze, domain.LeagueSilver, domain.LeagueGold, domain.LeagueDiamond}

	byLeague := make(map[domain.League]*LeagueRow, len(order))
	rows := make([]LeagueRow, len(order))
	for i, lg := range order {
		rows[i] = LeagueRow{League: string(lg)}
		byLeague[lg] = &rows[i]
	}

	for _, r := range records {
		row, ok := byLeague[r.League]
		if !ok {
			continue
		}
		row.Wallets++
		row.EligibleVolume += r.EligibleVolume
		row.TotalXP += r.TotalXP
	}
	return rows
}

func walletRows(records []*domain.WeeklyXPRecord) []WalletRow {
	rows := make([]WalletRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, WalletRow{
			Wallet:          r.Wallet,
			League:          string(r.League),
			EligibleVolume:  r.EligibleVolume,
			TotalFees:       r.TotalFees,
			SwapXPRaw:       r.SwapXPRaw,
			SwapXPDecayed:   r.SwapXPDecayed,
			PairBonusXP:     r.PairBonusXP,
			TotalXP:         r.TotalXP,
			UniquePairCount: r.UniquePairCount,
			NewPairCount:    r.NewPairCount,
			TotalSwaps:      r.TotalSwaps,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalXP != rows[j].TotalXP {
			return rows[i].TotalXP > rows[j].TotalXP
		}
		return rows[i].Wallet < rows[j].Wallet
	})
	return rows
}
