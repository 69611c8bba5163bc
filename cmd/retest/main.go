// Command retest re-probes every row of a prior report that timed out,
// using a longer timeout and HEAD-before-GET, then merges the outcomes back
// into the CSV.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"urlcheck/internal/checker"
	"urlcheck/internal/config"
	"urlcheck/internal/domain"
	"urlcheck/internal/probe"
	"urlcheck/internal/report"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	table, err := report.LoadTable(cfg.RetestInputCSV)
	if err != nil {
		logger.Fatal("could not read prior report", zap.Error(err))
	}

	urls := table.TimedOutURLs()
	if len(urls) == 0 {
		logger.Info("no timed-out rows found, nothing to retest",
			zap.String("input", cfg.RetestInputCSV))
		return
	}

	logger.Info("retesting timed-out urls",
		zap.String("input", cfg.RetestInputCSV),
		zap.Int("urls", len(urls)),
		zap.Int("workers", cfg.MaxWorkers),
		zap.Duration("timeout", cfg.RetestTimeoutDuration()),
	)

	prober := probe.New(probe.Options{
		Timeout:   cfg.RetestTimeoutDuration(),
		UserAgent: cfg.UserAgent,
		HeadFirst: true,
		Binary:    true,
	}, nil, logger)

	dispatcher := checker.New(prober, checker.Options{
		Workers:       cfg.MaxWorkers,
		ProgressEvery: cfg.ProgressEvery,
	}, nil, logger)

	results := dispatcher.Run(context.Background(), urls)

	updated := make(map[string]domain.Result, len(results))
	stillTimingOut := 0
	for _, rec := range results {
		updated[rec.URL] = rec
		if rec.HTTPCode == domain.CodeTimeout {
			stillTimingOut++
		}
	}

	changed := table.ApplyRetest(updated)
	if err := table.Write(cfg.RetestOutputCSV); err != nil {
		logger.Fatal("could not write updated report", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "------------------------------------------------------------")
	fmt.Fprintln(os.Stdout, "Summary:")
	fmt.Fprintf(os.Stdout, "  URLs retested: %d\n", len(urls))
	fmt.Fprintf(os.Stdout, "  Rows updated: %d\n", changed)
	fmt.Fprintf(os.Stdout, "  Resolved (got definitive code): %d\n", len(urls)-stillTimingOut)
	fmt.Fprintf(os.Stdout, "  Still timing out: %d\n", stillTimingOut)
	fmt.Fprintf(os.Stdout, "  Updated CSV saved to: %s\n", cfg.RetestOutputCSV)
	fmt.Fprintln(os.Stdout, "------------------------------------------------------------")
}
