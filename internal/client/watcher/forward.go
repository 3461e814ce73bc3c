package watcher

import "sync"

// forward turns any channel into a Trigger-shaped channel. stop is called
// once when the subscription is cancelled.
func forward[T any](src <-chan T, stop func()) (<-chan struct{}, func()) {
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
			case <-src:
				notify(ch)
			}
		}
	}()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			stop()
			close(done)
			wg.Wait()
		})
	}
}
