package synth

import "math"

// biquad is a direct form I filter using the audio-graph cookbook
// coefficients: Q is in dB for low-pass and linear for band-pass.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	x1, x2     float64
	y1, y2     float64
}

func newBiquad(f Filter, sampleRate float64) *biquad {
	freq := math.Min(f.Frequency, sampleRate/2*0.999)
	if freq <= 0 {
		return &biquad{b0: 1}
	}
	w0 := 2 * math.Pi * freq / sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)

	var b0, b1, b2, alpha float64
	switch f.Type {
	case Bandpass:
		q := f.Q
		if q <= 0 {
			q = 1e-4
		}
		alpha = sinw / (2 * q)
		b0, b1, b2 = alpha, 0, -alpha
	default:
		alpha = sinw / (2 * math.Pow(10, f.Q/20))
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = b0
	}
	a0 := 1 + alpha
	return &biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

func (b *biquad) process(x float64) float64 {
	y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2, b.x1 = b.x1, x
	b.y2, b.y1 = b.y1, y
	return y
}
