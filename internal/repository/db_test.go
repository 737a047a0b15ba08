package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "serialization failure", err: &pgconn.PgError{Code: pgSerializationFailure}, want: true},
		{name: "deadlock", err: &pgconn.PgError{Code: pgDeadlockDetected}, want: true},
		{name: "wrapped deadlock", err: errors.Join(errors.New("reserve"), &pgconn.PgError{Code: pgDeadlockDetected}), want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: pgUniqueViolation}, want: false},
		{name: "domain error", err: domain.ErrInsufficientInventory, want: false},
		{name: "plain error", err: errors.New("connection refused"), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}

func TestRunWithRetry_RetriesTransientFailures(t *testing.T) {
	calls := 0
	err := runWithRetry(context.Background(), clock.WallClock, 5, time.Millisecond, 5*time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: pgSerializationFailure}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunWithRetry_ExhaustedBecomesConcurrencyConflict(t *testing.T) {
	calls := 0
	err := runWithRetry(context.Background(), clock.WallClock, 3, time.Millisecond, 5*time.Millisecond, func() error {
		calls++
		return &pgconn.PgError{Code: pgDeadlockDetected}
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 3, calls)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr), "the last store error stays in the chain")
}

func TestRunWithRetry_FatalErrorReturnedUnchanged(t *testing.T) {
	calls := 0
	want := domain.InsufficientInventory("F101", 5, 1)
	err := runWithRetry(context.Background(), clock.WallClock, 5, time.Millisecond, 5*time.Millisecond, func() error {
		calls++
		return want
	})

	assert.Same(t, want, err)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetry_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := runWithRetry(ctx, clock.WallClock, 100, 50*time.Millisecond, time.Second, func() error {
		calls++
		cancel()
		return &pgconn.PgError{Code: pgSerializationFailure}
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestTxContext(t *testing.T) {
	_, ok := txFromContext(context.Background())
	assert.False(t, ok)
}

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}
	assert.NotNil(t, NewTravelOptionRepository(pool))
	assert.NotNil(t, NewBookingRepository(pool))

	tx := NewTransactor(pool, WithRetry(7, 3*time.Millisecond), WithClock(clock.WallClock))
	assert.Equal(t, 7, tx.attempts)
	assert.Equal(t, 3*time.Millisecond, tx.delay)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}
