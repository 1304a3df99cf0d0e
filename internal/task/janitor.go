package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrJanitorStarted is returned by Start when the janitor is already running.
var ErrJanitorStarted = errors.New("janitor already started")

// Sweeper is a unit of periodic maintenance. Sweep returns how many items
// it cleaned up.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SweeperFunc adapts a function to the Sweeper interface.
type SweeperFunc func(ctx context.Context) (int, error)

// Sweep calls f(ctx).
func (f SweeperFunc) Sweep(ctx context.Context) (int, error) {
	return f(ctx)
}

// JanitorConfig holds configuration for the janitor
type JanitorConfig struct {
	// Name identifies the janitor in logs
	Name string

	// Interval defines how often the sweeper runs
	// If zero, defaults to one minute
	Interval time.Duration
}

// DefaultJanitorConfig returns a JanitorConfig with reasonable defaults
func DefaultJanitorConfig() JanitorConfig {
	return JanitorConfig{
		Name:     "janitor",
		Interval: time.Minute,
	}
}

// Janitor runs a Sweeper periodically in the background
type Janitor struct {
	sweeper    Sweeper
	config     JanitorConfig
	logger     *slog.Logger
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewJanitor creates a new Janitor
func NewJanitor(sweeper Sweeper, config JanitorConfig, logger *slog.Logger) *Janitor {
	if sweeper == nil {
		panic("sweeper cannot be nil")
	}
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.Name == "" {
		config.Name = "janitor"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Janitor{
		sweeper: sweeper,
		config:  config,
		logger:  logger.With("component", config.Name),
	}
}

// Start begins sweeping in a background goroutine
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancelFunc != nil {
		return ErrJanitorStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancelFunc = cancel

	j.wg.Add(1)
	go j.loop(ctx)

	j.logger.Info("janitor started", "interval", j.config.Interval.String())
	return nil
}

// Stop gracefully shuts down the janitor and waits for a running sweep to
// finish. Stop on a janitor that is not running does nothing.
func (j *Janitor) Stop() {
	j.mu.Lock()
	cancel := j.cancelFunc
	j.cancelFunc = nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	j.wg.Wait()
	j.logger.Info("janitor stopped")
}

// RunOnce performs a single sweep and logs its outcome
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	n, err := j.sweeper.Sweep(ctx)
	if err != nil {
		j.logger.Error("sweep failed", "error", err)
		return n, err
	}
	if n > 0 {
		j.logger.Debug("sweep completed", "cleaned", n)
	}
	return n, nil
}

func (j *Janitor) loop(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Context cancelled, stop sweeping
			return

		case <-ticker.C:
			_, _ = j.RunOnce(ctx)
		}
	}
}
