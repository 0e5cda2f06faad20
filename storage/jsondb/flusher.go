package jsondb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/trezcool/darasa/core"
)

// Persister is anything that can save itself, eg. a *DB.
type Persister interface {
	Persist() error
}

// Ticker delivers ticks on C, like a *time.Ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (tt timeTicker) C() <-chan time.Time { return tt.t.C }
func (tt timeTicker) Stop()               { tt.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// DefaultFlushInterval is used when a Flusher is given a non-positive interval.
const DefaultFlushInterval = 5 * time.Minute

// Flusher persists a Persister on every tick, until stopped.
type Flusher struct {
	p         Persister
	interval  time.Duration
	logger    core.Logger
	newTicker func(time.Duration) Ticker

	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
}

type FlusherOption func(*Flusher)

// WithTicker replaces the wall-clock ticker, eg. with a manual one in tests.
func WithTicker(newTicker func(time.Duration) Ticker) FlusherOption {
	return func(f *Flusher) { f.newTicker = newTicker }
}

func NewFlusher(p Persister, interval time.Duration, logger core.Logger, opts ...FlusherOption) *Flusher {
	if interval <= 0 {
		logger.Warn(fmt.Sprintf("invalid flush interval %v, using %v", interval, DefaultFlushInterval))
		interval = DefaultFlushInterval
	}
	f := &Flusher{
		p:         p,
		interval:  interval,
		logger:    logger,
		newTicker: newTimeTicker,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start runs the flush loop in its own goroutine.
// The loop ends when ctx is done or Stop is called.
func (f *Flusher) Start(ctx context.Context) {
	ticker := f.newTicker(f.interval)
	go f.run(ctx, ticker)
}

func (f *Flusher) run(ctx context.Context, ticker Ticker) {
	defer close(f.done)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			f.flush()
		case <-f.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (f *Flusher) flush() {
	if err := f.p.Persist(); err != nil {
		f.logger.Error("scheduled flush failed", err)
	}
}

// Stop ends the flush loop, waits for it to return and flushes one last time.
// It must only be called after Start. Later calls are no-ops.
func (f *Flusher) Stop() error {
	var err error
	f.once.Do(func() {
		close(f.stopChan)
		<-f.done
		err = f.p.Persist()
	})
	return err
}
