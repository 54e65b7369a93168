package audio

import (
	"testing"
)

// --- Constants ---

func TestConstants(t *testing.T) {
	if FrameBytes != Channels*2 {
		t.Errorf("FrameBytes = %d, want %d", FrameBytes, Channels*2)
	}
	if SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", SampleRate)
	}
}

// --- ToInt16 ---

func TestToInt16(t *testing.T) {
	tests := []struct {
		input float64
		want  int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{0.5, 16383},
		{2, 32767},
		{-2, -32768},
	}
	for _, tt := range tests {
		if got := ToInt16(tt.input); got != tt.want {
			t.Errorf("ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

// --- Peak ---

func TestPeak(t *testing.T) {
	if got := Peak(nil); got != 0 {
		t.Errorf("Peak(nil) = %v, want 0", got)
	}
	if got := Peak([]int16{0, 100, -32767, 5}); got != 1 {
		t.Errorf("Peak full scale = %v, want 1", got)
	}
	if got := Peak([]int16{-32768}); got != 1 {
		t.Errorf("Peak(-32768) = %v, want clipped to 1", got)
	}
}

// --- SamplesToBytes ---

func TestSamplesToBytes(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 256}
	buf := SamplesToBytes(samples)
	if len(buf) != len(samples)*2 {
		t.Fatalf("SamplesToBytes length = %d, want %d", len(buf), len(samples)*2)
	}

	// 256 = 0x0100 -> bytes [0x00, 0x01]
	idx := 5 * 2
	if buf[idx] != 0x00 || buf[idx+1] != 0x01 {
		t.Errorf("Sample 256 encoded as [%02x, %02x], want [00, 01]", buf[idx], buf[idx+1])
	}
}

func TestSamplesBytesRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345, -6789}
	buf := SamplesToBytes(samples)

	recovered := make([]int16, len(buf)/2)
	for i := range recovered {
		recovered[i] = int16(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8)
	}

	for i, v := range samples {
		if recovered[i] != v {
			t.Errorf("Round-trip sample[%d]: got %d, want %d", i, recovered[i], v)
		}
	}
}

// --- Mixer ---

func decode(buf []byte) []int16 {
	out := make([]int16, len(buf)/2)
	for i := range out {
		out[i] = int16(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8)
	}
	return out
}

func TestMixerClockAdvancesWithReads(t *testing.T) {
	m := NewMixer(1000, 4)
	if m.Time() != 0 {
		t.Errorf("Initial Time = %v, want 0", m.Time())
	}
	buf := make([]byte, 250*FrameBytes)
	n, err := m.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if m.Time() != 0.25 {
		t.Errorf("Time after 250 frames = %v, want 0.25", m.Time())
	}
}

func TestMixerReadsWholeFrames(t *testing.T) {
	m := NewMixer(1000, 4)
	n, _ := m.Read(make([]byte, FrameBytes*3+1))
	if n != FrameBytes*3 {
		t.Errorf("Read returned %d bytes, want %d", n, FrameBytes*3)
	}
}

func TestMixerPlacesVoiceAtStart(t *testing.T) {
	m := NewMixer(1000, 4)
	if err := m.Add([]float32{0.5, 0.5}, 0.002); err != nil {
		t.Fatalf("Add: %v", err)
	}
	buf := make([]byte, 5*FrameBytes)
	m.Read(buf)
	got := decode(buf)
	want := []int16{0, 0, 0, 0, 16383, 16383, 16383, 16383, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if m.Active() != 0 {
		t.Errorf("Active after voice ended = %d, want 0", m.Active())
	}
}

func TestMixerSumsAndClips(t *testing.T) {
	m := NewMixer(1000, 4)
	m.Add([]float32{0.25, 0.75}, 0)
	m.Add([]float32{0.25, 0.75}, 0)
	buf := make([]byte, 2*FrameBytes)
	m.Read(buf)
	got := decode(buf)
	if got[0] != 16383 {
		t.Errorf("0.25+0.25 = %d, want 16383", got[0])
	}
	if got[2] != 32767 {
		t.Errorf("0.75+0.75 = %d, want clipped 32767", got[2])
	}
}

func TestMixerLateVoicePlaysWhole(t *testing.T) {
	m := NewMixer(1000, 4)
	m.Read(make([]byte, 2*FrameBytes)) // clock at frame 2
	m.Add([]float32{0.1, 0.2, 0.5}, 0)
	buf := make([]byte, 3*FrameBytes)
	m.Read(buf)
	got := decode(buf)
	for i, want := range []float64{0.1, 0.2, 0.5} {
		if got[i*Channels] != ToInt16(want) {
			t.Errorf("frame %d = %d, want %d", i, got[i*Channels], ToInt16(want))
		}
	}
}

func TestMixerVoiceLimit(t *testing.T) {
	m := NewMixer(1000, 2)
	long := make([]float32, 100)
	if err := m.Add(long, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(long, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(long, 0); err != ErrVoiceLimit {
		t.Errorf("third Add err = %v, want ErrVoiceLimit", err)
	}
	// Once the first voices finish there is room again.
	m.Read(make([]byte, 100*FrameBytes))
	if err := m.Add(long, m.Time()); err != nil {
		t.Errorf("Add after voices finished: %v", err)
	}
}

func TestMixerPublishesBlocksWithoutBlocking(t *testing.T) {
	m := NewMixer(1000, 4)
	buf := make([]byte, 10*FrameBytes)
	for i := 0; i < blockBuffer+10; i++ {
		m.Read(buf) // must not block once the channel is full
	}
	if got := len(m.Blocks()); got != blockBuffer {
		t.Errorf("buffered blocks = %d, want %d", got, blockBuffer)
	}
	block := <-m.Blocks()
	if len(block) != 10*Channels {
		t.Errorf("block length = %d, want %d", len(block), 10*Channels)
	}
}

func TestMixerClear(t *testing.T) {
	m := NewMixer(1000, 4)
	m.Add(make([]float32, 50), 0)
	m.Add(make([]float32, 50), 0.01)
	m.Clear()
	if m.Active() != 0 {
		t.Errorf("Active after Clear = %d, want 0", m.Active())
	}
	if err := m.Add([]float32{0.5}, m.Time()); err != nil {
		t.Errorf("Add after Clear: %v", err)
	}
}
