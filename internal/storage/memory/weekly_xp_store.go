package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/storage"
)

// WeeklyXPStore is an in-memory implementation of storage.WeeklyXPStore.
type WeeklyXPStore struct {
	mu   sync.RWMutex
	data map[string]*domain.WeeklyXPRecord // keyed by wallet|weekStart
}

// NewWeeklyXPStore creates a new in-memory weekly XP store.
func NewWeeklyXPStore() *WeeklyXPStore {
	return &WeeklyXPStore{data: make(map[string]*domain.WeeklyXPRecord)}
}

var _ storage.WeeklyXPStore = (*WeeklyXPStore)(nil)

func recordKey(wallet string, weekStartMs int64) string {
	return fmt.Sprintf("%s|%d", wallet, weekStartMs)
}

// Upsert inserts or replaces the record for (rec.Wallet, rec.WeekStart).
func (s *WeeklyXPStore) Upsert(_ context.Context, rec *domain.WeeklyXPRecord) error {
	if rec == nil || rec.Wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copyRecord(rec)
	s.data[recordKey(rec.Wallet, rec.WeekStart)] = cp
	return nil
}

// GetByWalletAndWeek retrieves one record. Returns ErrNotFound if absent.
func (s *WeeklyXPStore) GetByWalletAndWeek(_ context.Context, wallet string, weekStartMs int64) (*domain.WeeklyXPRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[recordKey(wallet, weekStartMs)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyRecord(rec), nil
}

// GetByWeek retrieves all records for a week, ordered by wallet ASC.
func (s *WeeklyXPStore) GetByWeek(_ context.Context, weekStartMs int64) ([]*domain.WeeklyXPRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.WeeklyXPRecord
	for _, rec := range s.data {
		if rec.WeekStart == weekStartMs {
			out = append(out, copyRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Wallet < out[j].Wallet })
	return out, nil
}

// copyRecord deep-copies a record so callers cannot alias store state.
func copyRecord(rec *domain.WeeklyXPRecord) *domain.WeeklyXPRecord {
	cp := *rec
	cp.Breakdown = append([]domain.PairXPResult(nil), rec.Breakdown...)
	cp.NewPairs = append([]string(nil), rec.NewPairs...)
	return &cp
}
