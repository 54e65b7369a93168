package synth

import "math"

// Render returns the voice's mono signal at sampleRate, from v.Start to
// v.End(). Sample i is taken at v.Start + i/sampleRate.
func Render(v *Voice, sampleRate int) []float32 {
	sr := float64(sampleRate)
	n := int(math.Ceil((v.End() - v.Start) * sr))
	if n <= 0 {
		return nil
	}
	out := make([]float32, n)

	lp := newBiquad(v.Filter, sr)
	phase := make([]float64, len(v.Partials))
	inc := make([]float64, len(v.Partials))
	for i, p := range v.Partials {
		inc[i] = p.EffectiveFrequency() / sr
	}

	var nf *biquad
	if v.Noise != nil {
		nf = newBiquad(v.Noise.Filter, sr)
	}

	for i := range out {
		t := v.Start + float64(i)/sr

		var sum float64
		for j := range v.Partials {
			p := &v.Partials[j]
			if t < p.Start || t >= p.Stop {
				continue
			}
			sum += p.Waveform.sample(phase[j]) * p.Gain.ValueAt(t)
			phase[j] += inc[j]
			if phase[j] >= 1 {
				phase[j] -= math.Floor(phase[j])
			}
		}

		if nz := v.Noise; nz != nil {
			var x float64
			if t >= nz.Start && t < nz.Stop {
				k := int((t - nz.Start) * float64(nz.SampleRate))
				if k < len(nz.Buffer) {
					x = nz.Buffer[k]
				}
			}
			sum += nf.process(x) * nz.Gain.ValueAt(t)
		}

		out[i] = float32(lp.process(sum * v.Master.ValueAt(t)))
	}
	return out
}
