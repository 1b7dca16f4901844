package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/storage"
)

// WeeklyXPStore implements storage.WeeklyXPStore using PostgreSQL.
// The upsert is keyed by (wallet_address, week_start); the per-pair
// breakdown and new-pairs list travel in a JSONB metadata column.
type WeeklyXPStore struct {
	pool *Pool
}

// NewWeeklyXPStore creates a new WeeklyXPStore.
func NewWeeklyXPStore(pool *Pool) *WeeklyXPStore {
	return &WeeklyXPStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WeeklyXPStore = (*WeeklyXPStore)(nil)

// recordMetadata is the JSONB blob attached to each weekly record.
type recordMetadata struct {
	Breakdown []domain.PairXPResult `json:"breakdown"`
	NewPairs  []string              `json:"new_pairs"`
}

// Upsert inserts or replaces the record for (rec.Wallet, rec.WeekStart).
func (s *WeeklyXPStore) Upsert(ctx context.Context, rec *domain.WeeklyXPRecord) error {
	if rec == nil || rec.Wallet == "" {
		return storage.ErrInvalidInput
	}

	meta, err := json.Marshal(recordMetadata{Breakdown: rec.Breakdown, NewPairs: rec.NewPairs})
	if err != nil {
		return fmt.Errorf("marshal record metadata: %w", err)
	}

	query := `
		INSERT INTO weekly_xp_records (
			wallet_address, week_start, league,
			swap_xp_raw, swap_xp_decayed, pair_bonus_xp, total_xp,
			eligible_volume, total_fees,
			unique_pairs_count, new_pairs_count, total_swaps,
			classic_swaps, limit_order_swaps, metadata
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9,
			$10, $11, $12,
			$13, $14, $15
		)
		ON CONFLICT (wallet_address, week_start) DO UPDATE SET
			league            = EXCLUDED.league,
			swap_xp_raw       = EXCLUDED.swap_xp_raw,
			swap_xp_decayed   = EXCLUDED.swap_xp_decayed,
			pair_bonus_xp     = EXCLUDED.pair_bonus_xp,
			total_xp          = EXCLUDED.total_xp,
			eligible_volume   = EXCLUDED.eligible_volume,
			total_fees        = EXCLUDED.total_fees,
			unique_pairs_count = EXCLUDED.unique_pairs_count,
			new_pairs_count   = EXCLUDED.new_pairs_count,
			total_swaps       = EXCLUDED.total_swaps,
			classic_swaps     = EXCLUDED.classic_swaps,
			limit_order_swaps = EXCLUDED.limit_order_swaps,
			metadata          = EXCLUDED.metadata,
			updated_at        = now()
	`

	_, err = s.pool.Exec(ctx, query,
		rec.Wallet, rec.WeekStart, string(rec.League),
		rec.SwapXPRaw, rec.SwapXPDecayed, rec.PairBonusXP, rec.TotalXP,
		rec.EligibleVolume, rec.TotalFees,
		rec.UniquePairCount, rec.NewPairCount, rec.TotalSwaps,
		rec.ClassicSwaps, rec.LimitOrderSwaps, meta,
	)
	if err != nil {
		return fmt.Errorf("upsert weekly xp record: %w", err)
	}
	return nil
}

// GetByWalletAndWeek retrieves one record. Returns ErrNotFound if absent.
func (s *WeeklyXPStore) GetByWalletAndWeek(ctx context.Context, wallet string, weekStartMs int64) (*domain.WeeklyXPRecord, error) {
	query := selectColumns + ` WHERE wallet_address = $1 AND week_start = $2`

	row := s.pool.QueryRow(ctx, query, wallet, weekStartMs)
	rec, err := scanWeeklyRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get weekly xp record: %w", err)
	}
	return rec, nil
}

// GetByWeek retrieves all records for a week, ordered by wallet ASC.
func (s *WeeklyXPStore) GetByWeek(ctx context.Context, weekStartMs int64) ([]*domain.WeeklyXPRecord, error) {
	query := selectColumns + ` WHERE week_start = $1 ORDER BY wallet_address ASC`

	rows, err := s.pool.Query(ctx, query, weekStartMs)
	if err != nil {
		return nil, fmt.Errorf("get weekly xp records by week: %w", err)
	}
	defer rows.Close()

	var out []*domain.WeeklyXPRecord
	for rows.Next() {
		rec, err := scanWeeklyRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weekly xp record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly xp records: %w", err)
	}
	return out, nil
}

const selectColumns = `
	SELECT
		wallet_address, week_start, league,
		swap_xp_raw, swap_xp_decayed, pair_bonus_xp, total_xp,
		eligible_volume, total_fees,
		unique_pairs_count, new_pairs_count, total_swaps,
		classic_swaps, limit_order_swaps, metadata
	FROM weekly_xp_records
`

// scanWeeklyRecord scans a single row into a WeeklyXPRecord.
func scanWeeklyRecord(row pgx.Row) (*domain.WeeklyXPRecord, error) {
	var rec domain.WeeklyXPRecord
	var league string
	var meta []byte

	err := row.Scan(
		&rec.Wallet, &rec.WeekStart, &league,
		&rec.SwapXPRaw, &rec.SwapXPDecayed, &rec.PairBonusXP, &rec.TotalXP,
		&rec.EligibleVolume, &rec.TotalFees,
		&rec.UniquePairCount, &rec.NewPairCount, &rec.TotalSwaps,
		&rec.ClassicSwaps, &rec.LimitOrderSwaps, &meta,
	)
	if err != nil {
		return nil, err
	}

	rec.League = domain.League(league)
	if len(meta) > 0 {
		var m recordMetadata
		if err := json.Unmarshal(meta, &m); err != nil {
			return nil, fmt.Errorf("unmarshal record metadata: %w", err)
		}
		rec.Breakdown = m.Breakdown
		rec.NewPairs = m.NewPairs
	}
	return &rec, nil
}
