// Package postgres implements the hosted storage backend on a Postgres pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/KpG782/qr-registration/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the hosted backend. Cascading deletes are issued explicitly so they
// hold even when the hosted schema was created without ON DELETE CASCADE.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open connects, pings and migrates. The returned store owns the pool.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return New(pool), nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.db(ctx).Exec(ctx, sql, args...)
}

func (s *Store) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.db(ctx).Query(ctx, sql, args...)
}

func (s *Store) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.db(ctx).QueryRow(ctx, sql, args...)
}

func toEpoch(t time.Time) int64 {
	return t.Unix()
}

func fromEpoch(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func toNullEpoch(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

func fromNullEpoch(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := fromEpoch(*v)
	return &t
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
