package audio

import (
	"fmt"
	"time"
)

// Waveform is a mono signal: one float32 sample per frame, nominally in [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate SampleRate
}

func NewWaveform(samples []float32, sampleRate SampleRate) Waveform {
	return Waveform{
		Samples:    samples,
		SampleRate: sampleRate,
	}
}

func (w Waveform) Len() int {
	return len(w.Samples)
}

func (w Waveform) Duration() time.Duration {
	if w.SampleRate == 0 {
		return 0
	}
	return time.Duration(uint64(len(w.Samples)) * uint64(time.Second) / uint64(w.SampleRate))
}

func (w Waveform) Validate() error {
	if w.SampleRate == 0 {
		return fmt.Errorf("sample rate is mandatory")
	}
	if len(w.Samples) == 0 {
		return fmt.Errorf("the waveform is empty")
	}
	return nil
}

func (w Waveform) Clone() Waveform {
	samples := make([]float32, len(w.Samples))
	copy(samples, w.Samples)
	return Waveform{
		Samples:    samples,
		SampleRate: w.SampleRate,
	}
}

func (w Waveform) String() string {
	return fmt.Sprintf("%d samples @ %v (%v)", len(w.Samples), w.SampleRate, w.Duration())
}
