package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appshots/config"
	"appshots/failures"
	"appshots/job"
	"appshots/logger"
	"appshots/success"

	"github.com/getsentry/sentry-go"
)

func main() {
	if err := run(); err != nil {
		logger.Errorf("%v", err)
		logger.Close()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if err := logger.Init(os.Stderr, cfg.LogFile, level); err != nil {
		return err
	}
	defer logger.Close()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Release: "appshots@1"}); err != nil {
			return fmt.Errorf("sentry.Init: %w", err)
		}
		// Flush buffered events before the program terminates.
		defer sentry.Flush(2 * time.Second)
		logger.Debug("Sentry error reporting enabled")
	}

	if cfg.RecordsEnabled() {
		closeStores, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer closeStores()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := job.New(cfg, os.Stdout).Run(ctx)
	if err != nil {
		return err
	}

	logger.Infof("Run %s finished: %d written, %d failed", summary.RunID, summary.Succeeded, summary.Failed)
	return nil
}

// openStores opens the run record databases under cfg.DataDir and prunes
// records older than cfg.RecordRetention.
func openStores(cfg *config.Config) (func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	logger.Debugf("Opening success database at %s", cfg.GetSuccessDBPath())
	if err := success.Init(cfg.GetSuccessDBPath()); err != nil {
		return nil, err
	}

	logger.Debugf("Opening failures database at %s", cfg.GetFailuresDBPath())
	if err := failures.Init(cfg.GetFailuresDBPath()); err != nil {
		success.Close()
		return nil, err
	}

	if cfg.RecordRetention > 0 {
		if n, err := success.CleanupOldRecords(cfg.RecordRetention); err != nil {
			logger.Errorf("Failed to cleanup old success records: %v", err)
		} else if n > 0 {
			logger.Infof("Removed %d success records older than %v", n, cfg.RecordRetention)
		}
		if n, err := failures.CleanupOldRecords(cfg.RecordRetention); err != nil {
			logger.Errorf("Failed to cleanup old failure records: %v", err)
		} else if n > 0 {
			logger.Infof("Removed %d failure records older than %v", n, cfg.RecordRetention)
		}
	}

	return func() {
		if err := success.Close(); err != nil {
			logger.Errorf("Failed to close success store: %v", err)
		}
		if err := failures.Close(); err != nil {
			logger.Errorf("Failed to close failure store: %v", err)
		}
	}, nil
}
