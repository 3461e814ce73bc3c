package watcher

import (
	"sync"
	"time"
)

// Trigger is an event source that asks the watcher to reconcile. Subscribe
// returns the event channel and a func that deregisters the subscription.
type Trigger interface {
	Subscribe() (<-chan struct{}, func())
}

// TriggerFunc adapts a plain function to Trigger.
type TriggerFunc func() (<-chan struct{}, func())

func (f TriggerFunc) Subscribe() (<-chan struct{}, func()) { return f() }

// Ticker fires every d.
func Ticker(d time.Duration) Trigger {
	return TriggerFunc(func() (<-chan struct{}, func()) {
		t := time.NewTicker(d)
		ch := make(chan struct{}, 1)
		done := make(chan struct{})
		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					notify(ch)
				}
			}
		}()

		var once sync.Once
		return ch, func() {
			once.Do(func() {
				t.Stop()
				close(done)
				wg.Wait()
			})
		}
	})
}

// Hub is an in-process broadcaster. The REPL publishes on it for every line
// the user enters.
type Hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan struct{}]struct{})}
}

// Publish wakes every subscriber without blocking.
func (h *Hub) Publish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		notify(ch)
	}
}

func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Len reports the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
