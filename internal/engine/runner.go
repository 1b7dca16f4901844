package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dex-xp-engine/internal/domain"
	"dex-xp-engine/internal/observability"
	"dex-xp-engine/internal/storage"
)

// Runner executes one weekly XP run: per active wallet, fetch trades and
// pair history, compute the record, upsert it, and settle the week's
// pairs into history.
type Runner struct {
	tradeStore    storage.TradeStore
	weeklyXPStore storage.WeeklyXPStore
	pairHistory   storage.PairHistoryStore

	params  domain.Params
	workers int
	dryRun  bool
	log     zerolog.Logger
}

// Options for creating Runner.
type Options struct {
	// Required stores
	TradeStore    storage.TradeStore
	WeeklyXPStore storage.WeeklyXPStore
	PairHistory   storage.PairHistoryStore

	Params domain.Params

	// Options
	Workers int  // concurrent wallets; <= 0 means 1
	DryRun  bool // compute but never persist
	Logger  zerolog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(opts Options) *Runner {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		tradeStore:    opts.TradeStore,
		weeklyXPStore: opts.WeeklyXPStore,
		pairHistory:   opts.PairHistory,
		params:        opts.Params,
		workers:       workers,
		dryRun:        opts.DryRun,
		log:           opts.Logger,
	}
}

// RunResult contains results from a weekly run.
type RunResult struct {
	WalletsProcessed int
	RecordsUpserted  int
	WalletsFailed    int
	Errors           []string
}

// Run processes a week. When wallets is empty, every wallet with trades
// in the window is processed. A wallet failure is recorded and skipped;
// it never aborts the run.
func (r *Runner) Run(ctx context.Context, weekStartMs int64, wallets []string) (*RunResult, error) {
	if err := r.params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	startMs, endMs := WindowFor(weekStartMs)
	started := time.Now()

	if len(wallets) == 0 {
		var err error
		wallets, err = r.tradeStore.ActiveWallets(ctx, startMs, endMs)
		if err != nil {
			observability.RecordRun("failed", time.Since(started).Seconds())
			return nil, fmt.Errorf("load active wallets: %w", err)
		}
	}

	r.log.Info().
		Int64("week_start", weekStartMs).
		Int("wallets", len(wallets)).
		Bool("dry_run", r.dryRun).
		Msg("weekly run starting")

	result := &RunResult{}
	if len(wallets) == 0 {
		observability.RecordRun("ok", time.Since(started).Seconds())
		return result, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan string)

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for wallet := range jobs {
				upserted, err := r.processWallet(ctx, wallet, weekStartMs, startMs, endMs)

				mu.Lock()
				if err != nil {
					result.WalletsFailed++
					result.Errors = append(result.Errors, fmt.Sprintf("wallet %s: %v", wallet, err))
				} else {
					result.WalletsProcessed++
					if upserted {
						result.RecordsUpserted++
					}
				}
				mu.Unlock()
			}
		}()
	}

	for _, wallet := range wallets {
		jobs <- wallet
	}
	close(jobs)
	wg.Wait()

	sort.Strings(result.Errors)

	status := "ok"
	if result.WalletsFailed > 0 {
		status = "partial"
	}
	observability.RecordRun(status, time.Since(started).Seconds())
	if status == "ok" && !r.dryRun {
		observability.DefaultMetrics.LastSuccessfulRun.Set(float64(time.Now().Unix()))
	}

	r.log.Info().
		Int("processed", result.WalletsProcessed).
		Int("upserted", result.RecordsUpserted).
		Int("failed", result.WalletsFailed).
		Dur("elapsed", time.Since(started)).
		Msg("weekly run finished")

	return result, nil
}

// processWallet computes and persists one wallet's record. Returns true
// when a record was upserted.
func (r *Runner) processWallet(ctx context.Context, wallet string, weekStartMs, startMs, endMs int64) (bool, error) {
	walletStart := time.Now()

	trades, err := r.tradeStore.GetByWalletAndWindow(ctx, wallet, startMs, endMs)
	if err != nil {
		observability.RecordWalletFailed()
		return false, fmt.Errorf("load trades: %w", err)
	}

	historical, err := r.pairHistory.PairsBefore(ctx, wallet, weekStartMs)
	if err != nil {
		observability.RecordWalletFailed()
		return false, fmt.Errorf("load pair history: %w", err)
	}

	rec, audit := ComputeWeek(wallet, weekStartMs, trades, historical, r.params)

	observability.RecordFilterStats(audit.InputTrades, map[string]int{
		"non_success": audit.NonSuccessSkipped,
		"malformed":   audit.MalformedSkipped,
		"dust":        audit.DustDropped,
		"impact":      audit.ImpactDropped,
		"round_trip":  audit.RoundTripExcluded,
	}, rec.EligibleVolume)

	r.log.Debug().
		Str("wallet", wallet).
		Str("league", string(rec.League)).
		Float64("eligible_volume", rec.EligibleVolume).
		Float64("total_xp", rec.TotalXP).
		Int("new_pairs", rec.NewPairCount).
		Int("dust_dropped", audit.DustDropped).
		Int("round_trips_excluded", audit.RoundTripExcluded).
		Msg("wallet computed")

	if r.dryRun {
		observability.RecordWalletProcessed(time.Since(walletStart).Seconds())
		return false, nil
	}

	if err := r.weeklyXPStore.Upsert(ctx, rec); err != nil {
		observability.RecordWalletFailed()
		return false, fmt.Errorf("upsert record: %w", err)
	}

	// Settle every traded pair so later weeks see it as historical.
	// Runs after the upsert: a settle failure must not leave a persisted
	// record without its XP.
	if len(rec.Breakdown) > 0 {
		pairs := make([]string, 0, len(rec.Breakdown))
		for _, p := range rec.Breakdown {
			pairs = append(pairs, p.Pair)
		}
		if err := r.pairHistory.RecordPairs(ctx, wallet, pairs, weekStartMs); err != nil {
			observability.RecordWalletFailed()
			return true, fmt.Errorf("settle pair history: %w", err)
		}
	}

	observability.RecordWalletProcessed(time.Since(walletStart).Seconds())
	return true, nil
}
