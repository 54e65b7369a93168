package synth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/remeh/sizedwaitgroup"
)

var (
	ErrInvalidRequest = errors.New("invalid tone request")
	ErrUnavailable    = errors.New("audio unavailable")
	ErrRamp           = errors.New("exponential ramp target must be positive")
	ErrBusy           = errors.New("too many tones pending")
)

// State is the run state of an audio context.
type State int

const (
	Suspended State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "suspended"
}

// Context is the shared audio output pipeline voices are scheduled on.
type Context interface {
	State() State
	// Resume starts the output. It blocks until the context is running.
	Resume(ctx context.Context) error
	// CurrentTime is the context clock in seconds.
	CurrentTime() float64
	SampleRate() int
	// Schedule hands a voice to the context. The context owns it afterwards.
	Schedule(v *Voice) error
}

const (
	DefaultDuration = 1.8 // seconds
	DefaultVelocity = 0.7
	MinVelocity     = 0.15
	MaxVelocity     = 0.9

	startFloor = 1e-4
	endFloor   = 1e-3

	attackTime   = 0.012
	decayTime    = 0.20
	sustainRatio = 0.55

	partialAttack     = 0.01
	partialMinRelease = 0.35
	stopMargin        = 0.05

	filterCutoff = 4200
	filterQ      = 0.5

	noiseLength = 0.012
	noiseCenter = 1800
	noiseQ      = 0.8
	noisePeak   = 0.008
	noiseDecay  = 0.01
	noiseStop   = 0.015

	resumeTimeout = 5 * time.Second
)

// PartialSpec is one harmonic of the piano timbre.
type PartialSpec struct {
	Ratio  int
	Gain   float64
	Detune float64 // cents
}

var partials = [...]PartialSpec{
	{Ratio: 1, Gain: 1.0, Detune: 0},
	{Ratio: 2, Gain: 0.28, Detune: 0.8},
	{Ratio: 3, Gain: 0.12, Detune: -1.0},
	{Ratio: 4, Gain: 0.06, Detune: 0.6},
}

// Partials returns the harmonic series used for every tone.
func Partials() []PartialSpec {
	out := make([]PartialSpec, len(partials))
	copy(out, partials[:])
	return out
}

// Request is a single note to render.
type Request struct {
	Frequency float64 // Hz
	Duration  float64 // seconds
	Velocity  float64 // clamped to [MinVelocity, MaxVelocity]
}

// Tone returns a request for freq with the default duration and velocity.
func Tone(freq float64) Request {
	return Request{Frequency: freq, Duration: DefaultDuration, Velocity: DefaultVelocity}
}

// Validate checks that frequency and duration are positive and finite.
func (r Request) Validate() error {
	if !(r.Frequency > 0) || math.IsInf(r.Frequency, 1) {
		return fmt.Errorf("%w: frequency %v", ErrInvalidRequest, r.Frequency)
	}
	if !(r.Duration > 0) || math.IsInf(r.Duration, 1) {
		return fmt.Errorf("%w: duration %v", ErrInvalidRequest, r.Duration)
	}
	return nil
}

// Peak clamps a velocity to the playable range.
func Peak(velocity float64) float64 {
	if math.IsNaN(velocity) {
		return MinVelocity
	}
	return math.Max(MinVelocity, math.Min(MaxVelocity, velocity))
}

// ReleaseEnd is the offset from note start at which a partial reaches the
// end floor. Higher partials decay faster, never sooner than 0.35s.
func ReleaseEnd(ratio int, duration float64) float64 {
	if ratio <= 1 {
		return duration
	}
	return math.Max(partialMinRelease, duration*(0.9-float64(ratio-1)*0.12))
}

// Options tune the synthesizer.
type Options struct {
	HammerNoise bool     // layer a short filtered noise burst at onset
	Waveform    Waveform // partial shape, Triangle by default
	MaxPending  int      // in-flight Trigger calls, 16 if zero
}

// Synthesizer renders piano-like tones onto a shared Context.
type Synthesizer struct {
	ac    Context
	opts  Options
	noise func() float64
	swg   sizedwaitgroup.SizedWaitGroup

	pending atomic.Int64 // triggers holding a swg slot
}

// New creates a synthesizer that schedules onto ac.
func New(ac Context, opts Options) *Synthesizer {
	if opts.MaxPending <= 0 {
		opts.MaxPending = 16
	}
	return &Synthesizer{
		ac:    ac,
		opts:  opts,
		noise: rand.Float64,
		swg:   sizedwaitgroup.New(opts.MaxPending),
	}
}

// Play validates req, resumes the context if it is suspended, and schedules
// the tone. It returns once the voice is scheduled, not when it finishes.
func (s *Synthesizer) Play(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if s.ac == nil {
		return ErrUnavailable
	}
	if s.ac.State() == Suspended {
		if err := s.ac.Resume(ctx); err != nil {
			return fmt.Errorf("resume audio: %w", err)
		}
	}

	v, err := s.Voice(req, s.ac.CurrentTime())
	if err != nil {
		return err
	}
	if err := s.ac.Schedule(v); err != nil {
		return fmt.Errorf("schedule voice: %w", err)
	}
	return nil
}

// Trigger is the fire-and-forget form of Play. Invalid requests fail
// immediately; everything else runs in the background and failures are
// logged. A missing audio device is not reported. Trigger does not wait on
// the context: with MaxPending tones still pending it drops req and returns
// ErrBusy.
func (s *Synthesizer) Trigger(req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if s.pending.Add(1) > int64(s.opts.MaxPending) {
		s.pending.Add(-1)
		log.Printf("Tone %.2f Hz dropped: %d tones pending", req.Frequency, s.opts.MaxPending)
		return ErrBusy
	}
	s.swg.Add() // at most a finishing goroutine's Done away
	go func() {
		defer s.swg.Done()
		defer s.pending.Add(-1)
		ctx, cancel := context.WithTimeout(context.Background(), resumeTimeout)
		defer cancel()
		if err := s.Play(ctx, req); err != nil && !errors.Is(err, ErrUnavailable) {
			log.Printf("Tone %.2f Hz failed: %v", req.Frequency, err)
		}
	}()
	return nil
}

// Wait blocks until every triggered tone has been scheduled or dropped.
func (s *Synthesizer) Wait() {
	s.swg.Wait()
}

// Voice builds the scheduled description of req anchored at now.
func (s *Synthesizer) Voice(req Request, now float64) (*Voice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	peak := Peak(req.Velocity)

	master := NewParam(1)
	master.SetValueAtTime(startFloor, now)
	err := errors.Join(
		master.ExponentialRampToValueAtTime(peak, now+attackTime),
		master.ExponentialRampToValueAtTime(peak*sustainRatio, now+decayTime),
		master.ExponentialRampToValueAtTime(endFloor, now+req.Duration),
	)

	v := &Voice{
		Start:    now,
		Master:   master,
		Filter:   Filter{Type: Lowpass, Frequency: filterCutoff, Q: filterQ},
		Partials: make([]Oscillator, 0, len(partials)),
	}

	for _, p := range partials {
		g := NewParam(1)
		g.SetValueAtTime(startFloor, now)
		err = errors.Join(err,
			g.ExponentialRampToValueAtTime(peak*p.Gain, now+partialAttack),
			g.ExponentialRampToValueAtTime(endFloor, now+ReleaseEnd(p.Ratio, req.Duration)),
		)
		v.Partials = append(v.Partials, Oscillator{
			Waveform:  s.opts.Waveform,
			Frequency: req.Frequency * float64(p.Ratio),
			Detune:    p.Detune,
			Gain:      g,
			Start:     now,
			Stop:      now + req.Duration + stopMargin,
		})
	}

	if s.opts.HammerNoise && s.ac != nil {
		nz, nerr := s.hammer(now, s.ac.SampleRate())
		err = errors.Join(err, nerr)
		v.Noise = nz
	}

	if err != nil {
		return nil, fmt.Errorf("build voice: %w", err)
	}
	return v, nil
}

// hammer builds the onset noise burst: a linearly fading noise buffer through
// a band-pass, at very low gain.
func (s *Synthesizer) hammer(now float64, sampleRate int) (*Noise, error) {
	n := int(math.Floor(float64(sampleRate) * noiseLength))
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = (s.noise()*2 - 1) * (1 - float64(i)/float64(n))
	}

	g := NewParam(1)
	g.SetValueAtTime(noisePeak, now)
	if err := g.ExponentialRampToValueAtTime(endFloor, now+noiseDecay); err != nil {
		return nil, err
	}
	return &Noise{
		Buffer:     buf,
		SampleRate: sampleRate,
		Filter:     Filter{Type: Bandpass, Frequency: noiseCenter, Q: noiseQ},
		Gain:       g,
		Start:      now,
		Stop:       now + noiseStop,
	}, nil
}
