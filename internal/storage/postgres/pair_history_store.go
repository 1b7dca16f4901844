package postgres

import (
	"context"
	"fmt"

	"dex-xp-engine/internal/storage"
)

// PairHistoryStore implements storage.PairHistoryStore using PostgreSQL.
// One row per (wallet, pair) holding the earliest week the pair was
// traded.
type PairHistoryStore struct {
	pool *Pool
}

// NewPairHistoryStore creates a new PairHistoryStore.
func NewPairHistoryStore(pool *Pool) *PairHistoryStore {
	return &PairHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PairHistoryStore = (*PairHistoryStore)(nil)

// PairsBefore returns the pairs the wallet traded in weeks strictly
// before cutoffMs.
func (s *PairHistoryStore) PairsBefore(ctx context.Context, wallet string, cutoffMs int64) (map[string]struct{}, error) {
	query := `
		SELECT pair
		FROM wallet_pair_history
		WHERE wallet_address = $1 AND first_week_start < $2
	`

	rows, err := s.pool.Query(ctx, query, wallet, cutoffMs)
	if err != nil {
		return nil, fmt.Errorf("get pairs before cutoff: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		out[p] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pairs: %w", err)
	}
	return out, nil
}

// RecordPairs marks pairs as traded in the given week. LEAST keeps the
// earliest known week, so re-runs and out-of-order backfills are safe.
func (s *PairHistoryStore) RecordPairs(ctx context.Context, wallet string, pairs []string, weekStartMs int64) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}
	if len(pairs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO wallet_pair_history (wallet_address, pair, first_week_start)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet_address, pair) DO UPDATE SET
			first_week_start = LEAST(wallet_pair_history.first_week_start, EXCLUDED.first_week_start)
	`

	for _, p := range pairs {
		if _, err := tx.Exec(ctx, query, wallet, p, weekStartMs); err != nil {
			return fmt.Errorf("record pair %s: %w", p, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
