package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"dex-xp-engine/internal/storage"
)

// DefaultTTL bounds how long a cached pair set may lag behind settled
// history. Weekly runs touch a wallet at most a few times, so staleness
// only matters across back-to-back reruns.
const DefaultTTL = 15 * time.Minute

// PairHistoryCache decorates a PairHistoryStore with a Redis read-through
// cache keyed by (wallet, cutoff). PairsBefore is the hot path during a
// weekly run: every wallet needs its full historical pair set before
// the bonus can be computed.
type PairHistoryCache struct {
	client *redis.Client
	inner  storage.PairHistoryStore
	ttl    time.Duration
}

// NewPairHistoryCache creates a cache over inner. A non-positive ttl
// falls back to DefaultTTL.
func NewPairHistoryCache(client *redis.Client, inner storage.PairHistoryStore, ttl time.Duration) *PairHistoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PairHistoryCache{client: client, inner: inner, ttl: ttl}
}

// NewClient creates a Redis client from an address.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Ensure PairHistoryCache implements the PairHistoryStore interface
var _ storage.PairHistoryStore = (*PairHistoryCache)(nil)

func cacheKey(wallet string, cutoffMs int64) string {
	return fmt.Sprintf("pairhist:%s:%d", wallet, cutoffMs)
}

// PairsBefore returns the wallet's historical pair set, serving from
// Redis when possible. Cache failures degrade to the inner store.
func (c *PairHistoryCache) PairsBefore(ctx context.Context, wallet string, cutoffMs int64) (map[string]struct{}, error) {
	key := cacheKey(wallet, cutoffMs)

	data, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var pairs []string
		if jsonErr := json.Unmarshal([]byte(data), &pairs); jsonErr == nil {
			out := make(map[string]struct{}, len(pairs))
			for _, p := range pairs {
				out[p] = struct{}{}
			}
			return out, nil
		}
		// Malformed entry, fall through to the store
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not fail the run
		return c.inner.PairsBefore(ctx, wallet, cutoffMs)
	}

	pairs, err := c.inner.PairsBefore(ctx, wallet, cutoffMs)
	if err != nil {
		return nil, err
	}

	list := make([]string, 0, len(pairs))
	for p := range pairs {
		list = append(list, p)
	}
	sort.Strings(list)

	if encoded, err := json.Marshal(list); err == nil {
		// Best effort; a failed SET just means a cold read next time
		_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}

	return pairs, nil
}

// RecordPairs settles new pairs into the inner store and drops the
// wallet's cached entries so the next read sees them. The TTL bounds
// staleness for any cutoff keys the scan misses.
func (c *PairHistoryCache) RecordPairs(ctx context.Context, wallet string, pairs []string, weekStartMs int64) error {
	if err := c.inner.RecordPairs(ctx, wallet, pairs, weekStartMs); err != nil {
		return err
	}

	pattern := fmt.Sprintf("pairhist:%s:*", wallet)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
	// Invalidation errors are non-fatal, TTL expiry covers the gap
	return nil
}
