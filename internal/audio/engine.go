package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/satindergrewal/melodymagic/internal/synth"
)

// Output is an audio device pulling PCM from the mixer.
type Output interface {
	Resume() error
	Suspend() error
}

// OpenFunc opens an output device reading from src. The returned channel is
// closed once the device is ready to play.
type OpenFunc func(opts Options, src io.Reader) (Output, <-chan struct{}, error)

// Options configure an Engine.
type Options struct {
	SampleRate int
	BufferSize time.Duration
	Volume     float64 // player volume in [0, 1]
	MaxVoices  int
}

// Engine is the process-wide audio context. The device is opened on the
// first Resume and kept for the life of the process; a device that fails to
// open is not retried.
type Engine struct {
	opts  Options
	open  OpenFunc
	mixer *Mixer

	mu      sync.Mutex
	out     Output
	ready   <-chan struct{}
	openErr error
	state   synth.State
}

// NewEngine creates an engine backed by the system audio device.
func NewEngine(opts Options) *Engine {
	return NewEngineWithOutput(opts, openOto)
}

// NewEngineWithOutput creates an engine that opens its device with open.
func NewEngineWithOutput(opts Options, open OpenFunc) *Engine {
	if opts.SampleRate <= 0 {
		opts.SampleRate = SampleRate
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = BufferSize
	}
	if opts.MaxVoices <= 0 {
		opts.MaxVoices = MaxVoices
	}
	if opts.Volume <= 0 || opts.Volume > 1 {
		opts.Volume = 1
	}
	return &Engine{
		opts:  opts,
		open:  open,
		mixer: NewMixer(opts.SampleRate, opts.MaxVoices),
		state: synth.Suspended,
	}
}

// State reports whether the device is running.
func (e *Engine) State() synth.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Resume opens the device if needed and waits until it is running.
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	if e.openErr != nil {
		e.mu.Unlock()
		return fmt.Errorf("%w: %v", synth.ErrUnavailable, e.openErr)
	}
	if e.out == nil {
		out, ready, err := e.open(e.opts, e.mixer)
		if err != nil {
			e.openErr = err
			e.mu.Unlock()
			log.Printf("Audio unavailable: %v", err)
			return fmt.Errorf("%w: %v", synth.ErrUnavailable, err)
		}
		e.out, e.ready = out, ready
		log.Printf("Audio device opened (%d Hz, %v buffer)", e.opts.SampleRate, e.opts.BufferSize)
	}
	out, ready := e.out, e.ready
	e.mu.Unlock()

	select {
	case <-ready:
	case <-ctx.Done():
		return fmt.Errorf("wait for audio device: %w", ctx.Err())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == synth.Running {
		return nil
	}
	if err := out.Resume(); err != nil {
		return fmt.Errorf("resume output: %w", err)
	}
	e.state = synth.Running
	return nil
}

// Suspend pauses the device and drops the voices still sounding, so the
// next Resume starts from silence. The clock stops until then.
func (e *Engine) Suspend() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.out == nil || e.state == synth.Suspended {
		return nil
	}
	if err := e.out.Suspend(); err != nil {
		return fmt.Errorf("suspend output: %w", err)
	}
	e.mixer.Clear()
	e.state = synth.Suspended
	return nil
}

// CurrentTime is the mixer clock in seconds.
func (e *Engine) CurrentTime() float64 {
	return e.mixer.Time()
}

// SampleRate is the device sample rate.
func (e *Engine) SampleRate() int {
	return e.opts.SampleRate
}

// Schedule renders v and hands it to the mixer.
func (e *Engine) Schedule(v *synth.Voice) error {
	samples := synth.Render(v, e.opts.SampleRate)
	if err := e.mixer.Add(samples, v.Start); err != nil {
		return fmt.Errorf("voice at %.3fs: %w", v.Start, err)
	}
	return nil
}

// Voices returns the number of voices still sounding.
func (e *Engine) Voices() int {
	return e.mixer.Active()
}

// Blocks returns the mixed PCM blocks for monitoring.
func (e *Engine) Blocks() <-chan []int16 {
	return e.mixer.Blocks()
}

// otoOutput creates its player on the first Resume, after the device is ready.
type otoOutput struct {
	ctx    *oto.Context
	src    io.Reader
	volume float64
	player *oto.Player
}

func openOto(opts Options, src io.Reader) (Output, <-chan struct{}, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   opts.BufferSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return &otoOutput{ctx: ctx, src: src, volume: opts.Volume}, ready, nil
}

func (o *otoOutput) Resume() error {
	if o.player == nil {
		o.player = o.ctx.NewPlayer(o.src)
		o.player.SetVolume(o.volume)
		o.player.Play()
	}
	if err := o.ctx.Resume(); err != nil {
		return err
	}
	return o.ctx.Err()
}

func (o *otoOutput) Suspend() error {
	return o.ctx.Suspend()
}
