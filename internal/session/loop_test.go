package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLoop runs a loop in the background and stops it on cleanup.
func startLoop(t *testing.T, e *Engine) (*Loop, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop(e, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
	return l, cancel
}

func TestLoop_ForwardsCommands(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	clock := newClock(11, 0)
	l, _ := startLoop(t, newEngine(store, clock))

	tr, err := l.Start(ctx, at(9, 0), "email")
	require.NoError(t, err)
	assert.Equal(t, "09:00", tr.Started.TimeStart)

	tr, err = l.Retro(ctx, 30, "meeting")
	require.NoError(t, err)
	assert.Equal(t, "10:30", *tr.Stopped.TimeEnd)

	state, err := l.State(ctx)
	require.NoError(t, err)
	require.True(t, state.Active())
	assert.Equal(t, "meeting", state.Open.Label)

	stopped, err := l.Stop(ctx, at(10, 45))
	require.NoError(t, err)
	assert.Equal(t, "10:45", *stopped.TimeEnd)

	stopped, err = l.StopNow(ctx)
	require.NoError(t, err)
	assert.Nil(t, stopped)
}

func TestLoop_SerializesConcurrentTriggers(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	clock := newClock(9, 0)
	l, _ := startLoop(t, newEngine(store, clock))

	const triggers = 25
	var wg sync.WaitGroup
	errs := make(chan error, triggers)
	for i := 0; i < triggers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.StartNow(ctx, "interrupt"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	n, err := store.CountOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := store.QueryByDate(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.Len(t, entries, triggers)
}

func TestLoop_ClosedAfterCancel(t *testing.T) {
	l, cancel := startLoop(t, newEngine(openStore(t), newClock(9, 0)))
	cancel()

	require.Eventually(t, func() bool {
		_, err := l.StartNow(context.Background(), "late")
		return err == ErrLoopClosed
	}, time.Second, 10*time.Millisecond)
}

func TestLoop_SubmitHonoursContext(t *testing.T) {
	// No Run goroutine: submission can only end through the context.
	l := NewLoop(newEngine(openStore(t), newClock(9, 0)), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.StartNow(ctx, "never")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCommandKind_String(t *testing.T) {
	assert.Equal(t, "start", cmdStart.String())
	assert.Equal(t, "retro", cmdRetro.String())
	assert.Equal(t, "unknown", commandKind(0).String())
}

func TestLoop_DoRunsWithExclusiveAccess(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	clock := newClock(11, 0)
	l, _ := startLoop(t, newEngine(store, clock))

	_, err := l.Start(ctx, at(9, 0), "email")
	require.NoError(t, err)

	var seen State
	err = l.Do(ctx, func(ctx context.Context, e *Engine) error {
		seen = e.State()
		_, err := e.StopNow(ctx)
		return err
	})
	require.NoError(t, err)
	require.True(t, seen.Active())
	assert.Equal(t, "email", seen.Open.Label)

	state, err := l.State(ctx)
	require.NoError(t, err)
	assert.False(t, state.Active())
}

func TestLoop_DoPropagatesError(t *testing.T) {
	l, _ := startLoop(t, newEngine(openStore(t), newClock(11, 0)))

	boom := assert.AnError
	err := l.Do(context.Background(), func(context.Context, *Engine) error { return boom })
	assert.ErrorIs(t, err, boom)
}
