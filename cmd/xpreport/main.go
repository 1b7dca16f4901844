// Package main generates the weekly XP report from stored records.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"dex-xp-engine/internal/logger"
	"dex-xp-engine/internal/reporting"
	pgstore "dex-xp-engine/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	// Parse flags
	weekStart := flag.Int64("week-start", 0, "Week window start in Unix ms (required)")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger.Initialize(*logLevel)
	log := logger.GetForComponent("xpreport")

	if *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required (or POSTGRES_DSN env)")
		os.Exit(1)
	}
	if *weekStart == 0 {
		fmt.Fprintln(os.Stderr, "Error: --week-start is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()

	gen := reporting.NewGenerator(pgstore.NewWeeklyXPStore(pool))
	report, err := gen.Generate(ctx, *weekStart)
	if err != nil {
		log.Fatal().Err(err).Msg("generate report")
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output directory")
	}

	mdPath := filepath.Join(*outputDir, "WEEKLY_XP_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		log.Fatal().Err(err).Msg("write markdown report")
	}

	csvPath := filepath.Join(*outputDir, "weekly_xp.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Wallets)), 0o644); err != nil {
		log.Fatal().Err(err).Msg("write csv report")
	}

	fmt.Println("Weekly XP report generated:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
	fmt.Printf("  Wallets: %d | Total XP: %.2f\n", report.Summary.TotalWallets, report.Summary.TotalXP)
}
