// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

// Package postgres provides the PostgreSQL implementation of the
// catalog repositories and the transactor backing cascade deletes.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// poolIface abstracts the pgx pool so tests can substitute pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// execer is the query surface shared by the pool and an open pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txKey is the context key under which Transactor stores the open
// transaction.
type txKey struct{}

// execerFromCtx returns the transaction stored in ctx, or the pool when
// no transaction is active. Repository methods route their statements
// through it so they join the caller's transaction.
func execerFromCtx(ctx context.Context, pool poolIface) execer {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}
