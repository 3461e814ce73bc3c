// Package watcher keeps the displayed session statuses honest while the
// client runs: it evicts cached sessions whose window has ended, marks their
// topics closed and asks for fresh remote state.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/logging"
)

const DefaultInterval = 15 * time.Second

// Store is the part of the session cache the watcher needs. RemoveExpired
// must decide and delete atomically and return the ids it removed.
type Store interface {
	RemoveExpired(ctx context.Context, now time.Time) ([]int64, error)
}

// Board receives local Closed marks.
type Board interface {
	MarkClosed(topicIDs ...int64)
}

// Refresher re-reads remote state for topics that just expired.
type Refresher interface {
	Refresh(ctx context.Context, topicIDs []int64) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, topicIDs []int64) error

func (f RefresherFunc) Refresh(ctx context.Context, topicIDs []int64) error { return f(ctx, topicIDs) }

type Option func(*Watcher)

func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithTriggers adds event sources on top of the periodic ticker.
func WithTriggers(t ...Trigger) Option {
	return func(w *Watcher) { w.triggers = append(w.triggers, t...) }
}

func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

type Watcher struct {
	store     Store
	board     Board
	refresher Refresher
	logger    logging.Logger

	interval time.Duration
	triggers []Trigger
	now      func() time.Time

	mu sync.Mutex
}

func New(store Store, board Board, refresher Refresher, logger logging.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		store:     store,
		board:     board,
		refresher: refresher,
		logger:    logger,
		interval:  DefaultInterval,
		now:       time.Now,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Reconcile evicts expired sessions, refreshes their topics and returns the
// evicted ids. Unlike the runs driven by Start, the refresh happens before
// Reconcile returns, so nothing outlives the call.
func (w *Watcher) Reconcile(ctx context.Context) ([]int64, error) {
	var pending func()
	expired, err := w.reconcile(ctx, func(f func()) { pending = f })
	if pending != nil {
		pending()
	}
	return expired, err
}

func (w *Watcher) reconcile(ctx context.Context, spawn func(func())) (expired []int64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("watcher: panic during reconcile: %v", r)
		}
	}()

	expired, err = w.store.RemoveExpired(ctx, w.now())
	if err != nil {
		return nil, fmt.Errorf("watcher: evict sessions: %w", err)
	}
	if len(expired) == 0 {
		return nil, nil
	}
	w.board.MarkClosed(expired...)
	w.logger.Info(ctx, "voting sessions expired", "topic_ids", expired)

	ids := append([]int64(nil), expired...)
	spawn(func() { w.refresh(ctx, ids) })

	return expired, nil
}

func (w *Watcher) refresh(ctx context.Context, ids []int64) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error(ctx, "watcher: panic during refresh", "panic", r)
		}
	}()

	if err := w.refresher.Refresh(ctx, ids); err != nil && ctx.Err() == nil {
		w.logger.Warn(ctx, "watcher: refresh after expiry failed", "topic_ids", ids, "error", err)
	}
}

// Handle controls a running watcher.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop deregisters every trigger, cancels in-flight refreshes and waits for
// them. It is safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}

// Start reconciles once immediately and then on every trigger firing.
// Triggers that fire while a reconcile is running collapse into one
// follow-up run.
func (w *Watcher) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	wake := make(chan struct{}, 1)
	var cancels []func()
	var pumps sync.WaitGroup

	for _, t := range append([]Trigger{Ticker(w.interval)}, w.triggers...) {
		ch, unsubscribe := t.Subscribe()
		cancels = append(cancels, unsubscribe)

		pumps.Add(1)
		go func() {
			defer pumps.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-ch:
					if !ok {
						return
					}
					notify(wake)
				}
			}
		}()
	}

	var refreshes sync.WaitGroup
	spawn := func(f func()) {
		refreshes.Add(1)
		go func() {
			defer refreshes.Done()
			f()
		}()
	}

	run := func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.reconcile(ctx, spawn); err != nil && ctx.Err() == nil {
			w.logger.Error(ctx, "watcher: reconcile failed", "error", err)
		}
	}

	go func() {
		defer close(h.done)
		defer refreshes.Wait()
		defer func() {
			for _, c := range cancels {
				c()
			}
			pumps.Wait()
		}()

		run()
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
				run()
			}
		}
	}()

	return h
}
