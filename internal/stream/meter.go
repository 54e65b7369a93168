package stream

import (
	"context"
	"sync"

	"github.com/satindergrewal/melodymagic/internal/audio"
)

// Meter follows the output level: it jumps up to each block's peak and
// falls by a fixed factor per block otherwise.
type Meter struct {
	decay float64

	mu    sync.Mutex
	level float64
}

// NewMeter creates a meter. decay is the per-block falloff in (0, 1).
func NewMeter(decay float64) *Meter {
	if decay <= 0 || decay >= 1 {
		decay = 0.85
	}
	return &Meter{decay: decay}
}

// Feed updates the level from one PCM block.
func (m *Meter) Feed(block []int16) {
	p := audio.Peak(block)
	m.mu.Lock()
	defer m.mu.Unlock()
	if fallen := m.level * m.decay; p > fallen {
		m.level = p
	} else {
		m.level = fallen
	}
}

// Level returns the current level in [0, 1].
func (m *Meter) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Run feeds the meter from l until ctx is cancelled or l is unsubscribed.
func (m *Meter) Run(ctx context.Context, l *Listener) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.Done():
			return
		case block := <-l.C:
			m.Feed(block)
		}
	}
}
