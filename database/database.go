package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/resilience"
)

// DB is an open SQLite database: the GORM handle for queries and the
// underlying pool for pings and stats.
type DB struct {
	GormDB *gorm.DB
	pool   *sql.DB
	log    *logger.Logger
	closed atomic.Bool
}

// Open connects to the SQLite database named by cfg.DSN.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	return OpenWithDialector(ctx, sqlite.Open(cfg.DSN), cfg, log)
}

// OpenWithDialector connects through dialector. Lock contention and lost
// connections are retried up to cfg.MaxRetries times. Driver errors are
// translated to GORM sentinels, so a unique violation surfaces as
// gorm.ErrDuplicatedKey.
func OpenWithDialector(ctx context.Context, dialector gorm.Dialector, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	gormCfg := &gorm.Config{
		Logger:         newGormLogger(log, duration(cfg.SlowQueryThreshold), parseLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	attempts := 0
	db, err := resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		RetryIf:     IsRetryableError,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			log.Warn("Database connection attempt failed, retrying", logger.Fields(
				"attempt", attempt, logger.FieldError, err, "backoff", backoff.String(),
			))
		},
	}, func(ctx context.Context) (*DB, error) {
		attempts++
		return connect(ctx, dialector, gormCfg, cfg, log)
	})
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, fmt.Errorf("database connection canceled: %w", err)
	case err != nil:
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established", logger.Fields("attempt", attempts))
	return db, nil
}

func connect(ctx context.Context, dialector gorm.Dialector, gormCfg *gorm.Config, cfg Config, log *logger.Logger) (*DB, error) {
	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	pool, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(duration(cfg.ConnMaxLifetime))
	pool.SetConnMaxIdleTime(duration(cfg.ConnMaxIdleTime))
	return &DB{GormDB: gdb, pool: pool, log: log}, nil
}

// Close closes the pool. Later calls are no-ops.
func (d *DB) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	d.log.Info("Closing database connection")
	return d.pool.Close()
}

// WithContext returns a GORM session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.GormDB.WithContext(ctx)
}

// WithTransaction runs fn in a transaction. A returned error or a panic rolls
// it back; the panic is logged and re-raised.
func (d *DB) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithContext(ctx).Error("Transaction rolled back due to panic", logger.Fields("panic", fmt.Sprint(r)))
			panic(r)
		}
	}()
	return d.GormDB.WithContext(ctx).Transaction(fn)
}
