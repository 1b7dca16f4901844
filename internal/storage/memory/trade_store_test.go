package memory

import (
	"context"
	"errors"
	"testing"

	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/storage"
)

func testTrade(id, wallet string, ts int64) *domain.Trade {
	return &domain.Trade{
		ID:        id,
		Wallet:    wallet,
		FromToken: "0xaaa",
		ToToken:   "0xbbb",
		VolumeUSD: 100,
		Timestamp: ts,
		Status:    domain.TradeStatusSuccess,
		SwapType:  domain.SwapTypeClassic,
	}
}

func TestTradeStore_WindowBounds(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.Trade{
		testTrade("t1", "w1", 999),  // before
		testTrade("t2", "w1", 1000), // start, inclusive
		testTrade("t3", "w1", 1999), // inside
		testTrade("t4", "w1", 2000), // end, exclusive
		testTrade("t5", "w2", 1500), // other wallet
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByWalletAndWindow(ctx, "w1", 1000, 2000)
	if err != nil {
		t.Fatalf("GetByWalletAndWindow failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(got))
	}
	if got[0].ID != "t2" || got[1].ID != "t3" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestTradeStore_DuplicateBatchRejected(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.Trade{testTrade("t1", "w1", 1000)}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.Trade{
		testTrade("t2", "w1", 2000),
		testTrade("t1", "w1", 3000),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// The batch must be rejected whole: t2 was not inserted.
	got, err := store.GetByWalletAndWindow(ctx, "w1", 0, 10_000)
	if err != nil {
		t.Fatalf("GetByWalletAndWindow failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 trade after failed batch, got %d", len(got))
	}
}

func TestTradeStore_ActiveWallets(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.Trade{
		testTrade("t1", "w2", 1000),
		testTrade("t2", "w1", 1500),
		testTrade("t3", "w1", 1600),
		testTrade("t4", "w3", 5000), // outside window
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	wallets, err := store.ActiveWallets(ctx, 1000, 2000)
	if err != nil {
		t.Fatalf("ActiveWallets failed: %v", err)
	}
	if len(wallets) != 2 || wallets[0] != "w1" || wallets[1] != "w2" {
		t.Errorf("expected [w1 w2], got %v", wallets)
	}
}
