package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/secunit/backend/internal/config"
)

// Open builds the Executor selected by cfg.Driver. The returned close
// function releases the backend's resources.
func Open(ctx context.Context, cfg config.Database) (Executor, func(), error) {
	switch cfg.Driver {
	case config.DriverD1, "":
		return NewD1Client(cfg.D1), func() {}, nil

	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLExecutor(db), func() { _ = db.Close() }, nil

	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return unconfigured{}, func() {}, nil
		}
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		if err := Migrate(sqlDB, DialectPostgres); err != nil {
			_ = sqlDB.Close()
			pool.Close()
			return nil, nil, err
		}
		_ = sqlDB.Close()
		return NewPgExecutor(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// unconfigured stands in for a backend whose credentials are absent. The
// server still starts; health reports the gap and writes fail.
type unconfigured struct{}

func (unconfigured) Configured() bool { return false }

func (unconfigured) Execute(ctx context.Context, query string, params ...any) (*Result, error) {
	return nil, ErrNotConfigured
}
