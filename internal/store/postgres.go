// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

// Package store provides PostgreSQL connection and schema management.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// pingTimeout bounds the total time spent waiting for the database
// to accept connections at startup.
const pingTimeout = 30 * time.Second

// NewPool connects to PostgreSQL and verifies the connection.
// The ping is retried with fibonacci backoff so the service survives
// the database coming up slightly after it does.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	backoff := retry.NewFibonacci(250 * time.Millisecond)
	backoff = retry.WithMaxDuration(pingTimeout, backoff)

	err = retry.Do(pingCtx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("STORE_PING_FAILED").
			With("operation", "verify database connection").
			Wrap(err)
	}

	return pool, nil
}
