package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"analysis-backend/internal/shared/telemetry"
)

const defaultApplicationName = "analysis-backend"

// Options tunes the connection pool.
type Options struct {
	ApplicationName string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// openDB builds a pool from a pgx connection config. Tests swap it for a
// driver that needs no server.
var openDB = func(cfg *pgx.ConnConfig) (*sql.DB, error) {
	return stdlib.OpenDB(*cfg), nil
}

// DefaultServerOptions suits the API process.
func DefaultServerOptions() Options {
	return Options{
		ApplicationName: defaultApplicationName,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 2 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// DefaultMigrateOptions suits the one-shot migrate command.
func DefaultMigrateOptions() Options {
	opts := DefaultServerOptions()
	opts.ApplicationName = defaultApplicationName + "-migrate"
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1
	return opts
}

type envOverride struct {
	key   string
	apply func(*Options, string) error
}

var envOverrides = []envOverride{
	{"DB_MAX_OPEN_CONNS", intSetter(func(o *Options, v int) { o.MaxOpenConns = v })},
	{"DB_MAX_IDLE_CONNS", intSetter(func(o *Options, v int) { o.MaxIdleConns = v })},
	{"DB_CONN_MAX_LIFETIME", durationSetter(func(o *Options, v time.Duration) { o.ConnMaxLifetime = v })},
	{"DB_CONN_MAX_IDLE_TIME", durationSetter(func(o *Options, v time.Duration) { o.ConnMaxIdleTime = v })},
	{"DB_PING_TIMEOUT", durationSetter(func(o *Options, v time.Duration) { o.PingTimeout = v })},
	{"DB_APPLICATION_NAME", func(o *Options, raw string) error {
		o.ApplicationName = raw
		return nil
	}},
}

// OptionsFromEnv applies DB_* overrides on top of defaults. Invalid values
// are logged and ignored.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	for _, o := range envOverrides {
		raw := strings.TrimSpace(os.Getenv(o.key))
		if raw == "" {
			continue
		}
		if err := o.apply(&opts, raw); err != nil {
			telemetry.Warn("db.env_invalid", map[string]any{"key": o.key, "error": err.Error()})
		}
	}
	return opts
}

func intSetter(set func(*Options, int)) func(*Options, string) error {
	return func(o *Options, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		set(o, v)
		return nil
	}
}

func durationSetter(set func(*Options, time.Duration)) func(*Options, string) error {
	return func(o *Options, raw string) error {
		v, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		set(o, v)
		return nil
	}
}

// Connect opens a pgx-backed pool for databaseURL and pings it. Callers
// share the returned *sql.DB.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	connCfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.ApplicationName != "" {
		connCfg.RuntimeParams["application_name"] = opts.ApplicationName
	}

	pool, err := openDB(connCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	configurePool(pool, opts)

	if err := Ping(ctx, pool, opts.PingTimeout); err != nil {
		pool.Close()
		return nil, err
	}

	stats := pool.Stats()
	telemetry.Info("db.connected", map[string]any{
		"host":             connCfg.Host,
		"database":         connCfg.Database,
		"application_name": opts.ApplicationName,
		"max_open":         stats.MaxOpenConnections,
	})
	return pool, nil
}

// Ping checks connectivity, waiting at most timeout (5s when zero).
func Ping(ctx context.Context, pool *sql.DB, timeout time.Duration) error {
	if pool == nil {
		return fmt.Errorf("database not configured")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func configurePool(pool *sql.DB, opts Options) {
	defaults := DefaultServerOptions()
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaults.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaults.MaxIdleConns
	}
	if opts.MaxIdleConns > opts.MaxOpenConns {
		opts.MaxIdleConns = opts.MaxOpenConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = defaults.ConnMaxLifetime
	}
	pool.SetMaxOpenConns(opts.MaxOpenConns)
	pool.SetMaxIdleConns(opts.MaxIdleConns)
	pool.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}
