// Package database centralises sqlx connection helpers for the SQL content
// store.  The default driver is go-sql-driver/mysql, which also works with
// MariaDB.
//
// Public entry points:
//
//	Open(ctx, dsn)                  – conservative pool sizes.
//	OpenWithOptions(ctx, dsn, opts) – fine-grained control plus ping retries.
//	WithPassword(dsn, pw)           – splice a secret into a MySQL DSN.
//
// Both helpers Ping the database before returning so cmd/web can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tunes one connection pool.
type Options struct {
	Driver          string // defaults to "mysql"
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int           // extra ping attempts after the first
	RetryBackoff    time.Duration // sleep between attempts
}

// DefaultOptions returns 15 open, 5 idle, a 30-minute lifetime, and two
// ping retries half a second apart.
func DefaultOptions() Options {
	return Options{
		Driver:          "mysql",
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		Retries:         2,
		RetryBackoff:    500 * time.Millisecond,
	}
}

// Open connects with DefaultOptions.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, DefaultOptions())
}

// OpenWithOptions opens a pool and pings it, retrying per opts.
func OpenWithOptions(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	driver := opts.Driver
	if driver == "" {
		driver = "mysql"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	Tune(db, opts)

	var pingErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if pingErr = db.PingContext(ctx); pingErr == nil {
			return db, nil
		}
		zap.S().Warnw("database ping failed", "attempt", attempt+1, "err", pingErr)
		if attempt < opts.Retries {
			select {
			case <-ctx.Done():
				_ = db.Close()
				return nil, ctx.Err()
			case <-time.After(opts.RetryBackoff):
			}
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("ping %s: %w", driver, pingErr)
}

// Tune applies pool limits; zero values leave the driver default.
func Tune(db *sqlx.DB, opts Options) {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
}

// WithPassword returns dsn with its password replaced by pw.  The DSN
// template lives in YAML; the secret arrives separately from Vault.  An
// empty pw returns dsn unchanged.
func WithPassword(dsn, pw string) (string, error) {
	if pw == "" {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	cfg.Passwd = pw
	return cfg.FormatDSN(), nil
}
