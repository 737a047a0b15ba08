package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/clock"
	"github.com/juju/retry"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

func conn(ctx context.Context, db *pgxpool.Pool) querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

type PGTransactor struct {
	db       *pgxpool.Pool
	clock    clock.Clock
	attempts int
	delay    time.Duration
	maxDelay time.Duration
}

type TransactorOption func(*PGTransactor)

func WithRetry(attempts int, delay time.Duration) TransactorOption {
	return func(t *PGTransactor) {
		t.attempts = attempts
		t.delay = delay
	}
}

func WithClock(c clock.Clock) TransactorOption {
	return func(t *PGTransactor) {
		t.clock = c
	}
}

func NewTransactor(db *pgxpool.Pool, opts ...TransactorOption) *PGTransactor {
	t := &PGTransactor{
		db:       db,
		clock:    clock.WallClock,
		attempts: 5,
		delay:    20 * time.Millisecond,
		maxDelay: time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithinTx runs fn at READ COMMITTED. Row locks taken by the repositories
// serialize competing writers; serialization failures and deadlocks are
// retried with doubling delay and surface as domain.ErrConcurrencyConflict
// once the attempts run out.
func (t *PGTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return runWithRetry(ctx, t.clock, t.attempts, t.delay, t.maxDelay, func() error {
		return t.runOnce(ctx, fn)
	})
}

func (t *PGTransactor) runOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(withTx(ctx, tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func runWithRetry(ctx context.Context, clk clock.Clock, attempts int, delay, maxDelay time.Duration, fn func() error) error {
	var lastErr error
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			lastErr = fn()
			return lastErr
		},
		IsFatalError: func(err error) bool {
			return !IsRetryable(err)
		},
		Attempts:    attempts,
		Delay:       delay,
		MaxDelay:    maxDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       clk,
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		return nil
	case retry.IsAttemptsExceeded(err):
		return domain.ConcurrencyConflict(lastErr)
	case retry.IsRetryStopped(err):
		return fmt.Errorf("transaction retry stopped: %w", ctx.Err())
	default:
		return lastErr
	}
}

// IsRetryable reports whether err is a transient conflict that a fresh
// transaction may succeed past.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
