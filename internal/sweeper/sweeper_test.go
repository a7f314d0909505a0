package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/seology-ai/eventgate/internal/core/storage/memory"
	"github.com/seology-ai/eventgate/internal/gate"
	"github.com/stretchr/testify/require"
)

type recordingCleaner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	ctxErrs []error
	err     error
}

func (c *recordingCleaner) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cutoffs = append(c.cutoffs, now)
	c.ctxErrs = append(c.ctxErrs, ctx.Err())
	return int64(len(c.cutoffs)), c.err
}

func (c *recordingCleaner) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cutoffs)
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New(0, &recordingCleaner{})
	require.Equal(t, DefaultInterval, s.interval)
}

func TestSweep_UsesClockAsCutoff(t *testing.T) {
	cleaner := &recordingCleaner{}
	s := New(time.Hour, cleaner)
	fixed := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return fixed }

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.Equal(t, []time.Time{fixed}, cleaner.cutoffs)
}

func TestSweep_ReturnsCleanerError(t *testing.T) {
	s := New(time.Hour, &recordingCleaner{err: errors.New("db down")})

	_, err := s.Sweep(context.Background())
	require.EqualError(t, err, "db down")
}

func TestStart_InitialTickAndFinalSweep(t *testing.T) {
	cleaner := &recordingCleaner{}
	s := New(10*time.Millisecond, cleaner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return cleaner.calls() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}

	cleaner.mu.Lock()
	defer cleaner.mu.Unlock()
	// The final sweep runs on a fresh context.
	require.NoError(t, cleaner.ctxErrs[len(cleaner.ctxErrs)-1])
}

func TestStart_ErrorsDoNotStopTheLoop(t *testing.T) {
	cleaner := &recordingCleaner{err: errors.New("transient")}
	s := New(5*time.Millisecond, cleaner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Start(ctx) }()

	require.Eventually(t, func() bool { return cleaner.calls() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSweep_AgainstGate(t *testing.T) {
	ctx := context.Background()
	svc := gate.NewService(memory.NewLedger(), nil, gate.Options{Retention: time.Millisecond})
	svc.MarkProcessed(ctx, "evt-1", "shop1", "orders/create", gate.Outcome{Processed: true})

	s := New(time.Hour, svc)
	s.nowFn = func() time.Time { return time.Now().UTC().Add(time.Minute) }

	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = s.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
