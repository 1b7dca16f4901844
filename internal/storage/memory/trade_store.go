package memory

import (
	"context"
	"sort"
	"sync"

	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore,
// used by tests and dry runs.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[string]*domain.Trade // keyed by trade ID
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{trades: make(map[string]*domain.Trade)}
}

var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk adds multiple trades. Returns ErrDuplicateKey if any trade
// ID already exists; the batch is rejected whole.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.ID == "" || t.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.trades[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		batch[t.ID] = struct{}{}
	}

	for _, t := range trades {
		cp := *t
		s.trades[t.ID] = &cp
	}
	return nil
}

// GetByWalletAndWindow retrieves a wallet's trades with timestamp in
// [startMs, endMs), ordered by timestamp ASC, id ASC.
func (s *TradeStore) GetByWalletAndWindow(_ context.Context, wallet string, startMs, endMs int64) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Trade
	for _, t := range s.trades {
		if t.Wallet != wallet || t.Timestamp < startMs || t.Timestamp >= endMs {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ActiveWallets retrieves the distinct wallets with trades in
// [startMs, endMs), sorted ASC.
func (s *TradeStore) ActiveWallets(_ context.Context, startMs, endMs int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, t := range s.trades {
		if t.Timestamp >= startMs && t.Timestamp < endMs {
			seen[t.Wallet] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}
