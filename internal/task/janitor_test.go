package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestJanitor_SweepsPeriodically(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	sweeper := SweeperFunc(func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	})

	janitor := NewJanitor(sweeper, JanitorConfig{Name: "test", Interval: 5 * time.Millisecond}, testLogger())
	require.NoError(t, janitor.Start())

	assert.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	janitor.Stop()
	stopped := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load(), "no sweeps after Stop")
}

func TestJanitor_StartTwice(t *testing.T) {
	t.Parallel()

	sweeper := SweeperFunc(func(ctx context.Context) (int, error) { return 0, nil })
	janitor := NewJanitor(sweeper, DefaultJanitorConfig(), testLogger())

	require.NoError(t, janitor.Start())
	defer janitor.Stop()

	err := janitor.Start()
	assert.ErrorIs(t, err, ErrJanitorStarted)
}

func TestJanitor_StopWithoutStart(t *testing.T) {
	t.Parallel()

	sweeper := SweeperFunc(func(ctx context.Context) (int, error) { return 0, nil })
	janitor := NewJanitor(sweeper, DefaultJanitorConfig(), testLogger())

	assert.NotPanics(t, janitor.Stop)
}

func TestJanitor_RestartAfterStop(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	sweeper := SweeperFunc(func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, nil
	})
	janitor := NewJanitor(sweeper, JanitorConfig{Interval: 5 * time.Millisecond}, testLogger())

	require.NoError(t, janitor.Start())
	janitor.Stop()
	before := calls.Load()

	require.NoError(t, janitor.Start())
	defer janitor.Stop()
	assert.Eventually(t, func() bool {
		return calls.Load() > before
	}, time.Second, 5*time.Millisecond)
}

func TestJanitor_RunOnce(t *testing.T) {
	t.Parallel()

	t.Run("returns the sweep count", func(t *testing.T) {
		t.Parallel()
		sweeper := SweeperFunc(func(ctx context.Context) (int, error) { return 4, nil })
		janitor := NewJanitor(sweeper, DefaultJanitorConfig(), testLogger())

		n, err := janitor.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("propagates sweep errors", func(t *testing.T) {
		t.Parallel()
		sweepErr := errors.New("store unavailable")
		sweeper := SweeperFunc(func(ctx context.Context) (int, error) { return 0, sweepErr })
		janitor := NewJanitor(sweeper, DefaultJanitorConfig(), testLogger())

		_, err := janitor.RunOnce(context.Background())
		assert.ErrorIs(t, err, sweepErr)
	})
}

func TestNewJanitor_Defaults(t *testing.T) {
	t.Parallel()

	sweeper := SweeperFunc(func(ctx context.Context) (int, error) { return 0, nil })
	janitor := NewJanitor(sweeper, JanitorConfig{}, nil)

	assert.Equal(t, time.Minute, janitor.config.Interval)
	assert.Equal(t, "janitor", janitor.config.Name)
	assert.Panics(t, func() { NewJanitor(nil, JanitorConfig{}, nil) })
}
