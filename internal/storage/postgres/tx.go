package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the adapter translates into domain errors.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateInvalidText         = "22P02"
)

type txKey struct{}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// inTx runs fn inside a transaction carried on the context. Nested calls join
// the outer transaction.
func (s *Store) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// db returns the transaction on ctx, or the pool when there is none.
func (s *Store) db(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return sqlState(err) == sqlStateUniqueViolation }

func isForeignKeyViolation(err error) bool { return sqlState(err) == sqlStateForeignKeyViolation }

// isInvalidUUID reports a malformed id literal; callers treat it as "no such row".
func isInvalidUUID(err error) bool { return sqlState(err) == sqlStateInvalidText }

// validUUID guards statements run inside a transaction, where a malformed id
// would abort the transaction instead of matching nothing.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
