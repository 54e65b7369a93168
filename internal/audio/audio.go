package audio

import (
	"encoding/binary"
	"time"
)

const (
	SampleRate  = 48000
	Channels    = 2
	BitDepth    = 16
	FrameBytes  = Channels * BitDepth / 8 // bytes per interleaved frame
	BufferSize  = 40 * time.Millisecond   // device buffer, trades latency for dropouts
	MaxVoices   = 32
	blockBuffer = 64 // mixed blocks waiting for the monitor
)

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// ToInt16 scales a sample in [-1, 1] to int16, clipping out-of-range values.
func ToInt16(x float64) int16 {
	v := x * 32767
	if v > 32767 {
		return 32767
	} else if v < -32768 {
		return -32768
	}
	return int16(v)
}

// Peak returns the largest absolute sample in block, in [0, 1].
func Peak(block []int16) float64 {
	var peak int32
	for _, s := range block {
		v := int32(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak > 32767 {
		peak = 32767
	}
	return float64(peak) / 32767
}
