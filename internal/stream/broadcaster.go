package stream

import (
	"context"
	"sync"
)

// Broadcaster copies every block the mixer hands the device to the output
// monitors (the TUI level meter among them). Monitors run behind the audio
// clock and never hold up the mixer.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[*Listener]struct{}
}

// Listener is one monitor's view of the mixed output.
type Listener struct {
	C    chan []int16 // interleaved stereo blocks, dropped when full
	done chan struct{}
}

// Done is closed once the monitor is detached; Meter.Run stops on it.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// NewBroadcaster creates a broadcaster with no monitors attached.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		listeners: make(map[*Listener]struct{}),
	}
}

// Subscribe attaches a monitor that buffers up to size blocks, one block per
// device read.
func (b *Broadcaster) Subscribe(size int) *Listener {
	if size <= 0 {
		size = 1
	}
	l := &Listener{
		C:    make(chan []int16, size),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	b.listeners[l] = struct{}{}
	b.mu.Unlock()
	return l
}

// Unsubscribe detaches a monitor. Detaching twice is harmless.
func (b *Broadcaster) Unsubscribe(l *Listener) {
	b.mu.Lock()
	_, ok := b.listeners[l]
	delete(b.listeners, l)
	b.mu.Unlock()
	if ok {
		close(l.done)
	}
}

// ListenerCount returns the number of attached monitors.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Run forwards the engine's blocks (Engine.Blocks) until ctx is cancelled or
// source is closed. A monitor that falls behind misses blocks.
func (b *Broadcaster) Run(ctx context.Context, source <-chan []int16) {
	for {
		select {
		case <-ctx.Done():
			return
		case block, ok := <-source:
			if !ok {
				return
			}
			b.mu.RLock()
			for l := range b.listeners {
				select {
				case l.C <- block:
				default:
				}
			}
			b.mu.RUnlock()
		}
	}
}
