package audio

import (
	"errors"
	"math"
	"sync"
)

// ErrVoiceLimit is returned when the mixer is already carrying its maximum
// number of voices. New voices are dropped; playing ones are never cut.
var ErrVoiceLimit = errors.New("too many voices")

type mixVoice struct {
	samples []float32
	start   int64 // first frame on the mixer clock
}

func (v *mixVoice) done(pos int64) bool {
	return pos >= v.start+int64(len(v.samples))
}

// Mixer sums rendered voices into interleaved int16 PCM. The device pulls
// from it through Read; the number of frames read is the audio clock.
type Mixer struct {
	rate      int
	maxVoices int
	blockCh   chan []int16

	mu     sync.Mutex
	pos    int64
	voices []*mixVoice
}

// NewMixer creates a mixer running at sampleRate that carries at most
// maxVoices voices at once.
func NewMixer(sampleRate, maxVoices int) *Mixer {
	if maxVoices <= 0 {
		maxVoices = MaxVoices
	}
	return &Mixer{
		rate:      sampleRate,
		maxVoices: maxVoices,
		blockCh:   make(chan []int16, blockBuffer),
	}
}

// Blocks returns the channel of mixed PCM blocks, one per Read. Blocks are
// dropped when nobody drains the channel.
func (m *Mixer) Blocks() <-chan []int16 {
	return m.blockCh
}

// Time returns the clock in seconds.
func (m *Mixer) Time() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.pos) / float64(m.rate)
}

// Active returns the number of voices that have not finished.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	return len(m.voices)
}

// Add mixes samples in from start seconds on the clock. A voice whose start
// has already been read out plays from the current position, whole; the
// device keeps pulling while a voice renders, and skipping its head would cut
// the attack.
func (m *Mixer) Add(samples []float32, start float64) error {
	if len(samples) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune()
	if len(m.voices) >= m.maxVoices {
		return ErrVoiceLimit
	}
	at := int64(math.Round(start * float64(m.rate)))
	if at < m.pos {
		at = m.pos
	}
	m.voices = append(m.voices, &mixVoice{samples: samples, start: at})
	return nil
}

// Read fills buf with whole interleaved frames and advances the clock.
func (m *Mixer) Read(buf []byte) (int, error) {
	frames := len(buf) / FrameBytes
	block := make([]int16, frames*Channels)

	m.mu.Lock()
	for i := 0; i < frames; i++ {
		f := m.pos + int64(i)
		var sum float64
		for _, v := range m.voices {
			if k := f - v.start; k >= 0 && k < int64(len(v.samples)) {
				sum += float64(v.samples[k])
			}
		}
		s := ToInt16(sum)
		for c := 0; c < Channels; c++ {
			block[i*Channels+c] = s
		}
	}
	m.pos += int64(frames)
	m.prune()
	m.mu.Unlock()

	copy(buf, SamplesToBytes(block))

	select {
	case m.blockCh <- block:
	default:
		// monitor is behind, drop the block
	}
	return frames * FrameBytes, nil
}

// Clear drops every voice, sounding or not.
func (m *Mixer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.voices {
		m.voices[i] = nil
	}
	m.voices = m.voices[:0]
}

// prune removes finished voices. Must be called with mu held.
func (m *Mixer) prune() {
	live := m.voices[:0]
	for _, v := range m.voices {
		if !v.done(m.pos) {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live
}
