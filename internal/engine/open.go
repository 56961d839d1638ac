package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/celerix-dev/phonebook/internal/config"
	"github.com/celerix-dev/phonebook/internal/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the record store described by cfg and verifies it is reachable.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (Store, error) {
	driver, dsn, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverEmbedded:
		store, err := OpenDocStore(dsn)
		if err != nil {
			return nil, err
		}
		log.Info("Opened embedded record store", zap.String("data_dir", dsn))
		return store, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return openGorm(ctx, sqlite.Open(dsn), cfg, log)

	case config.DriverPostgres:
		return openGorm(ctx, postgres.Open(dsn), cfg, log)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openGorm(ctx context.Context, dialector gorm.Dialector, cfg config.DatabaseConfig, log *zap.Logger) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.LogLevel)),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	store := NewGormStore(db)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	log.Info("Opened SQL record store", zap.String("dialect", dialector.Name()))
	return store, nil
}
