package cmd

import (
	"context"
	"fmt"

	"admanager-sync/core/audit"
	"admanager-sync/core/config"
	"admanager-sync/core/database"
	"admanager-sync/core/gam"
	"admanager-sync/core/logger"

	"go.uber.org/zap"
)

// bootstrap loads configuration, builds the logger and establishes the
// Ad Manager session shared by the one-shot CLI commands.
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, *gam.Session, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	session, err := gam.NewSession(ctx, cfg.GAM)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to establish session: %w", err)
	}

	return cfg, l, session, nil
}

// openRecorder connects the optional audit trail. Failures are logged and
// tolerated so a broken database never blocks a sync run.
func openRecorder(cfg *config.Config, l *zap.Logger) *audit.Recorder {
	if !cfg.Database.Enabled {
		return nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Warn("Optional audit database connection failed", zap.Error(err))
		return nil
	}
	recorder, err := audit.NewRecorder(db)
	if err != nil {
		l.Warn("Audit recorder setup failed", zap.Error(err))
		return nil
	}
	return recorder
}
