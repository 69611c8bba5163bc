package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"urlcheck/internal/api"
	"urlcheck/internal/checker"
	"urlcheck/internal/config"
	"urlcheck/internal/domain"
	"urlcheck/internal/input"
	"urlcheck/internal/monitoring"
	"urlcheck/internal/probe"
	"urlcheck/internal/ratelimit"
	"urlcheck/internal/report"
	"urlcheck/internal/storage"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	lines, err := input.ReadLines(cfg.InputFile)
	if err != nil {
		logger.Fatal("could not read url list", zap.Error(err))
	}

	logger.Info("starting url check",
		zap.String("input", cfg.InputFile),
		zap.String("profile", cfg.Profile),
		zap.Int("urls", len(lines)),
		zap.Int("workers", cfg.MaxWorkers),
		zap.Duration("timeout", cfg.Timeout()),
		zap.Duration("request_delay", cfg.RequestDelay()),
	)

	metrics := monitoring.NewMetrics()
	limiter := ratelimit.New(cfg.RequestDelay())
	prober := probe.New(probe.Options{
		Timeout:      cfg.Timeout(),
		UserAgent:    cfg.UserAgent,
		Markers:      cfg.Markers(),
		DNSPrecheck:  cfg.DNSPrecheck,
		HeadFirst:    cfg.HeadFirst,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, limiter, logger)

	dispatcher := checker.New(prober, checker.Options{
		Workers:       cfg.MaxWorkers,
		ProgressEvery: cfg.ProgressEvery,
		Cooldown:      cfg.Cooldown(),
	}, metrics, logger)

	// Optional status endpoint for watching a long run.
	var server *api.Server
	if cfg.StatusAddr != "" {
		server = api.NewServer(cfg.StatusAddr, dispatcher, logger)
		go func() {
			if err := server.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("status server failed", zap.Error(err))
			}
		}()
		logger.Info("status server listening", zap.String("addr", cfg.StatusAddr))
	}

	start := time.Now()
	results := dispatcher.Run(context.Background(), lines)
	elapsed := time.Since(start)

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("status server shutdown", zap.Error(err))
		}
		cancel()
	}

	if err := report.WriteCSV(cfg.OutputFile, results, cfg.IncludeErrorType); err != nil {
		logger.Fatal("could not write report", zap.Error(err))
	}
	logger.Info("results saved", zap.String("output", cfg.OutputFile))

	if cfg.XLSXFile != "" {
		if err := report.WriteXLSX(cfg.XLSXFile, results, cfg.IncludeErrorType); err != nil {
			logger.Error("could not write xlsx report", zap.Error(err))
		} else {
			logger.Info("xlsx report saved", zap.String("output", cfg.XLSXFile))
		}
	}

	if cfg.PostgresURL != "" {
		archiveResults(cfg.PostgresURL, results, logger)
	}

	report.PrintSummary(os.Stdout, domain.Summarize(results, elapsed))
}

// archiveResults is best-effort: the CSV already holds the run.
func archiveResults(connStr string, results []domain.Result, logger *zap.Logger) {
	store, err := storage.NewPostgresStore(connStr)
	if err != nil {
		logger.Error("archive unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.SaveResults(ctx, results); err != nil {
		logger.Error("could not archive results", zap.Error(err))
		return
	}
	logger.Info("results archived", zap.Int("rows", len(results)))
}
