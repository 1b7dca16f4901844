package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/storage"
)

// TradeStore implements storage.TradeStore over the ClickHouse trade
// archive. The engine only reads from it; InsertBulk serves backfill
// tooling and the integration tests.
type TradeStore struct {
	conn *Conn
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(conn *Conn) *TradeStore {
	return &TradeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk adds multiple trades in one native batch.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trades (
			id, wallet_address, from_token, to_token,
			volume_usd, fee_usd, impact_bps, timestamp_ms, status, swap_type
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		if t == nil || t.ID == "" || t.Wallet == "" {
			return storage.ErrInvalidInput
		}
		err = batch.Append(
			t.ID, t.Wallet, t.FromToken, t.ToToken,
			t.VolumeUSD, t.FeeUSD, t.ImpactBps, uint64(t.Timestamp), t.Status, t.SwapType,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByWalletAndWindow retrieves a wallet's trades with timestamp in
// [startMs, endMs), ordered by timestamp ASC, id ASC.
func (s *TradeStore) GetByWalletAndWindow(ctx context.Context, wallet string, startMs, endMs int64) ([]*domain.Trade, error) {
	query := `
		SELECT id, wallet_address, from_token, to_token,
		       volume_usd, fee_usd, impact_bps, timestamp_ms, status, swap_type
		FROM trades
		WHERE wallet_address = ? AND timestamp_ms >= ? AND timestamp_ms < ?
		ORDER BY timestamp_ms ASC, id ASC
	`

	rows, err := s.conn.Query(ctx, query, wallet, uint64(startMs), uint64(endMs))
	if err != nil {
		return nil, fmt.Errorf("query trades by wallet and window: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// ActiveWallets retrieves the distinct wallets with trades in
// [startMs, endMs), sorted ASC.
func (s *TradeStore) ActiveWallets(ctx context.Context, startMs, endMs int64) ([]string, error) {
	query := `
		SELECT DISTINCT wallet_address
		FROM trades
		WHERE timestamp_ms >= ? AND timestamp_ms < ?
		ORDER BY wallet_address ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(startMs), uint64(endMs))
	if err != nil {
		return nil, fmt.Errorf("query active wallets: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallets: %w", err)
	}
	return out, nil
}

// scanTrades scans all rows into Trade records.
func scanTrades(rows driver.Rows) ([]*domain.Trade, error) {
	var out []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		var ts uint64
		err := rows.Scan(
			&t.ID, &t.Wallet, &t.FromToken, &t.ToToken,
			&t.VolumeUSD, &t.FeeUSD, &t.ImpactBps, &ts, &t.Status, &t.SwapType,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Timestamp = int64(ts)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return out, nil
}
