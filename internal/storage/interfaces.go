package storage

import (
	"context"

	"dex-xp-engine/internal/domain"
)

// TradeStore provides read access to the raw trade archive. The engine
// only reads; InsertBulk exists for backfill tooling and tests.
type TradeStore interface {
	// GetByWalletAndWindow retrieves a wallet's trades with
	// timestamp in [startMs, endMs), ordered by timestamp ASC, id ASC.
	GetByWalletAndWindow(ctx context.Context, wallet string, startMs, endMs int64) ([]*domain.Trade, error)

	// ActiveWallets retrieves the distinct wallets with at least one
	// trade in [startMs, endMs), sorted ASC.
	ActiveWallets(ctx context.Context, startMs, endMs int64) ([]string, error)

	// InsertBulk adds multiple trades in one batch.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error
}

// WeeklyXPStore persists weekly XP records. Upsert is keyed by
// (wallet, week_start): re-running a week replaces the record in place,
// never grows duplicates.
type WeeklyXPStore interface {
	// Upsert inserts or replaces the record for (rec.Wallet, rec.WeekStart).
	Upsert(ctx context.Context, rec *domain.WeeklyXPRecord) error

	// GetByWalletAndWeek retrieves one record. Returns ErrNotFound if absent.
	GetByWalletAndWeek(ctx context.Context, wallet string, weekStartMs int64) (*domain.WeeklyXPRecord, error)

	// GetByWeek retrieves all records for a week, ordered by wallet ASC.
	GetByWeek(ctx context.Context, weekStartMs int64) ([]*domain.WeeklyXPRecord, error)
}

// PairHistoryStore tracks the first week each (wallet, pair) was traded,
// backing the unique-pair bonus lookup.
type PairHistoryStore interface {
	// PairsBefore returns the set of normalized pair keys the wallet
	// traded in weeks strictly before cutoffMs.
	PairsBefore(ctx context.Context, wallet string, cutoffMs int64) (map[string]struct{}, error)

	// RecordPairs marks pairs as traded in the week starting at
	// weekStartMs. A pair already known from an earlier week keeps its
	// earlier week, so re-runs and out-of-order backfills are safe.
	RecordPairs(ctx context.Context, wallet string, pairs []string, weekStartMs int64) error
}
