package memory

import (
	"context"
	"sync"

	"dex-xp-engine/internal/storage"
)

// PairHistoryStore is an in-memory implementation of
// storage.PairHistoryStore.
type PairHistoryStore struct {
	mu sync.RWMutex
	// firstWeek[wallet][pair] = earliest week start the pair was traded
	firstWeek map[string]map[string]int64
}

// NewPairHistoryStore creates a new in-memory pair history store.
func NewPairHistoryStore() *PairHistoryStore {
	return &PairHistoryStore{firstWeek: make(map[string]map[string]int64)}
}

var _ storage.PairHistoryStore = (*PairHistoryStore)(nil)

// PairsBefore returns the pairs the wallet traded in weeks strictly
// before cutoffMs.
func (s *PairHistoryStore) PairsBefore(_ context.Context, wallet string, cutoffMs int64) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{})
	for p, week := range s.firstWeek[wallet] {
		if week < cutoffMs {
			out[p] = struct{}{}
		}
	}
	return out, nil
}

// RecordPairs marks pairs as traded in the given week, keeping the
// earliest known week for pairs recorded more than once.
func (s *PairHistoryStore) RecordPairs(_ context.Context, wallet string, pairs []string, weekStartMs int64) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byPair, ok := s.firstWeek[wallet]
	if !ok {
		byPair = make(map[string]int64)
		s.firstWeek[wallet] = byPair
	}
	for _, p := range pairs {
		if week, known := byPair[p]; !known || weekStartMs < week {
			byPair[p] = weekStartMs
		}
	}
	return nil
}
