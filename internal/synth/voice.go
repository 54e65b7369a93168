package synth

import "math"

// Waveform is the periodic shape of an oscillator.
type Waveform int

const (
	Triangle Waveform = iota
	Sine
)

func (w Waveform) String() string {
	if w == Sine {
		return "sine"
	}
	return "triangle"
}

// sample returns the waveform value at phase in [0,1). Both shapes start at
// zero and rise.
func (w Waveform) sample(phase float64) float64 {
	if w == Sine {
		return math.Sin(2 * math.Pi * phase)
	}
	switch {
	case phase < 0.25:
		return 4 * phase
	case phase < 0.75:
		return 2 - 4*phase
	default:
		return 4*phase - 4
	}
}

// FilterType selects the biquad response.
type FilterType int

const (
	Lowpass FilterType = iota
	Bandpass
)

// Filter describes a biquad stage.
type Filter struct {
	Type      FilterType
	Frequency float64 // cutoff or center, Hz
	Q         float64 // dB for Lowpass, linear for Bandpass
}

// Oscillator is one scheduled partial.
type Oscillator struct {
	Waveform  Waveform
	Frequency float64 // Hz, before detune
	Detune    float64 // cents
	Gain      *Param
	Start     float64
	Stop      float64
}

// EffectiveFrequency is the oscillator frequency with detune applied.
func (o Oscillator) EffectiveFrequency() float64 {
	return o.Frequency * math.Exp2(o.Detune/1200)
}

// Noise is the optional hammer-strike burst.
type Noise struct {
	Buffer     []float64
	SampleRate int
	Filter     Filter
	Gain       *Param
	Start      float64
	Stop       float64
}

// Voice is the full description of one scheduled note: every partial feeds
// the master gain, which feeds the output filter.
type Voice struct {
	Start    float64
	Master   *Param
	Filter   Filter
	Partials []Oscillator
	Noise    *Noise
}

// End is the latest stop time of any source in the voice.
func (v *Voice) End() float64 {
	end := v.Start
	for _, p := range v.Partials {
		end = math.Max(end, p.Stop)
	}
	if v.Noise != nil {
		end = math.Max(end, v.Noise.Stop)
	}
	return end
}
