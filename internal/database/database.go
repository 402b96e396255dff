package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect names the SQL flavour of the open store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config describes how to reach the relational store.
type Config struct {
	Driver       string // "sqlite" or "postgres"
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

// DB is the request-independent store handle. It is created once in main
// and passed to repositories explicitly.
type DB struct {
	sql     *sql.DB
	dialect Dialect
}

// Querier is satisfied by both the pooled handle and an open transaction.
// Statements use '?' placeholders and are rebound for the active dialect.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type boundQuerier struct {
	q       Querier
	dialect Dialect
}

func (b boundQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return b.q.ExecContext(ctx, Rebind(b.dialect, query), args...)
}

func (b boundQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return b.q.QueryContext(ctx, Rebind(b.dialect, query), args...)
}

func (b boundQuerier) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return b.q.QueryRowContext(ctx, Rebind(b.dialect, query), args...)
}

// Open connects to the configured store and applies the schema.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	var (
		db  *DB
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite", "sqlite3":
		db, err = openSQLite(cfg.URL)
	case "postgres", "postgresql", "pgx":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.sql.PingContext(ctx); err != nil {
		_ = db.sql.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.sql.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return db, nil
}

func openSQLite(url string) (*DB, error) {
	if url == "" {
		url = "file:petshop.db"
	}
	conn, err := sql.Open(SQLiteDriverName, withPragmas(url))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One writer. Pragmas live in the DSN so a reopened connection gets
	// them too.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	return &DB{sql: conn, dialect: DialectSQLite}, nil
}

func withPragmas(url string) string {
	if !strings.HasPrefix(url, "file:") {
		url = "file:" + url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + sqlitePragmas
}

func openPostgres(cfg Config) (*DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL is required for postgres")
	}
	conn, err := sql.Open(PostgresDriverName, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLife)
	}
	return &DB{sql: conn, dialect: DialectPostgres}, nil
}

// Dialect reports which store is open.
func (db *DB) Dialect() Dialect { return db.dialect }

func (db *DB) Close() error { return db.sql.Close() }

func (db *DB) Ping(ctx context.Context) error { return db.sql.PingContext(ctx) }

// Stats exposes pool statistics, mostly for tests asserting that
// connections are given back.
func (db *DB) Stats() sql.DBStats { return db.sql.Stats() }

// SQL exposes the pool for collectors that need the raw handle.
func (db *DB) SQL() *sql.DB { return db.sql }

// Q returns a non-transactional querier for simple parameterised reads.
func (db *DB) Q() Querier {
	return boundQuerier{q: db.sql, dialect: db.dialect}
}

// WithTx runs fn inside one transaction bound to ctx. It commits when fn
// returns nil and rolls back otherwise, so the connection goes back to the
// pool on every path. A cancelled ctx makes database/sql roll back as well.
func (db *DB) WithTx(ctx context.Context, fn func(q Querier) error) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(boundQuerier{q: tx, dialect: db.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rebind rewrites '?' placeholders into the dialect's native form.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Placeholders returns "?, ?, ?" with n markers, for IN lists.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
