package synth

import (
	"fmt"
	"math"
)

// EventKind is the type of an automation event on a Param.
type EventKind int

const (
	SetValue EventKind = iota
	ExponentialRamp
)

// Event is one point on a Param's automation timeline. Times are in
// context seconds.
type Event struct {
	Kind  EventKind
	Value float64
	Time  float64
}

// Param is an automatable value (a gain) on the context timeline.
//
// Events are kept sorted by time; events with equal times keep insertion
// order. An exponential ramp interpolates from the previous event's value
// and time to its own, and the value holds after the last event.
type Param struct {
	def    float64
	events []Event
}

// NewParam creates a Param whose value is def until the first event.
func NewParam(def float64) *Param {
	return &Param{def: def}
}

// SetValueAtTime jumps to v at time t.
func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(Event{Kind: SetValue, Value: v, Time: t})
}

// ExponentialRampToValueAtTime ramps exponentially from the previous event to
// v, reaching it at time t. v must be positive and finite.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return fmt.Errorf("%w: target %v at %.3fs", ErrRamp, v, t)
	}
	p.insert(Event{Kind: ExponentialRamp, Value: v, Time: t})
	return nil
}

// Events returns a copy of the automation timeline.
func (p *Param) Events() []Event {
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// ValueAt returns the automated value at time t.
func (p *Param) ValueAt(t float64) float64 {
	v0, t0 := p.def, math.Inf(-1)
	for _, e := range p.events {
		if t < e.Time {
			if e.Kind == ExponentialRamp {
				return expInterp(v0, e.Value, t0, e.Time, t)
			}
			return v0
		}
		v0, t0 = e.Value, e.Time
	}
	return v0
}

func (p *Param) insert(e Event) {
	i := len(p.events)
	for i > 0 && p.events[i-1].Time > e.Time {
		i--
	}
	p.events = append(p.events, Event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// expInterp holds v0 when the ramp has no usable start point (no previous
// event, or a start value that is not positive).
func expInterp(v0, v1, t0, t1, t float64) float64 {
	if math.IsInf(t0, -1) || v0 <= 0 || t1 <= t0 {
		return v0
	}
	return v0 * math.Pow(v1/v0, (t-t0)/(t1-t0))
}
