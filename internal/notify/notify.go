// Package notify implements the "credentials changed" signal: a process-wide
// publish/subscribe bus plus a watcher that surfaces writes made by other
// processes sharing the same storage file.
//
// Business logic only ever sees the Notifier interface; whether a change was
// local or cross-context is a transport detail.
package notify

// Notifier broadcasts a zero-payload "something changed" signal.
type Notifier interface {
	// Emit delivers the signal to every current subscriber, synchronously,
	// in the calling goroutine.
	Emit()

	// Subscribe registers fn and returns a function that removes it again.
	// fn must be safe to call from any goroutine.
	Subscribe(fn func()) (unsubscribe func())
}
