//go:build windows

package watcher

// Resumed never fires on platforms without job control signals.
func Resumed() Trigger {
	return TriggerFunc(func() (<-chan struct{}, func()) {
		return make(chan struct{}), func() {}
	})
}
