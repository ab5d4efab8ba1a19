package notify

import (
	"context"
	"sync"

	"github.com/mindtrap/client/internal/logging"
)

// Bus is the in-process Notifier. Delivery is synchronous and a panicking
// listener never prevents the remaining listeners from running.
type Bus struct {
	log logging.Logger

	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func NewBus(log logging.Logger) *Bus {
	if log == nil {
		log = logging.NewNop()
	}
	return &Bus{log: log, listeners: make(map[int]func())}
}

func (b *Bus) Subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

func (b *Bus) Emit() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		b.deliver(fn)
	}
}

func (b *Bus) deliver(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			b.log.Error(context.Background(), "notify listener panicked", "panic", p)
		}
	}()
	fn()
}
