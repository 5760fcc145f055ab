// Package migrations carries the hosted backend schema as embedded SQL files.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var files embed.FS

// Serializes migration runs across processes sharing the database.
const lockKey int64 = 801234567

const createLedger = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Status reports whether an embedded migration has been recorded.
type Status struct {
	Name    string
	Applied bool
}

type migration struct {
	name string
	sql  string
}

// Apply runs pending migrations in filename order.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := Run(ctx, pool)
	return err
}

// Run applies pending migrations and returns the names it executed. Each file
// is committed together with its schema_migrations row.
func Run(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	pending, err := load()
	if err != nil {
		return nil, err
	}

	var ran []string
	err = withLedger(ctx, pool, func(conn *pgx.Conn, applied map[string]bool) error {
		for _, m := range pending {
			if applied[m.name] || m.sql == "" {
				continue
			}
			if err := pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
				if _, err := tx.Exec(ctx, m.sql); err != nil {
					return fmt.Errorf("exec %s: %w", m.name, err)
				}
				_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.name)
				if err != nil {
					return fmt.Errorf("record %s: %w", m.name, err)
				}
				return nil
			}); err != nil {
				return err
			}
			ran = append(ran, m.name)
		}
		return nil
	})
	return ran, err
}

// Check lists every embedded migration with its applied state.
func Check(ctx context.Context, pool *pgxpool.Pool) ([]Status, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, len(all))
	err = withLedger(ctx, pool, func(_ *pgx.Conn, applied map[string]bool) error {
		for i, m := range all {
			statuses[i] = Status{Name: m.name, Applied: applied[m.name]}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func load() ([]migration, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		raw, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, migration{name: name, sql: strings.TrimSpace(string(raw))})
	}
	return out, nil
}

// withLedger holds the migration lock on one connection, makes sure the ledger
// table exists and hands fn the set of recorded names.
func withLedger(ctx context.Context, pool *pgxpool.Pool, fn func(*pgx.Conn, map[string]bool) error) error {
	pc, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer pc.Release()
	conn := pc.Conn()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	if _, err := conn.Exec(ctx, createLedger); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := conn.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("scan schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}

	return fn(conn, applied)
}
