package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaveformDuration(t *testing.T) {
	w := NewWaveform(make([]float32, 22050), 44100)
	require.Equal(t, 500*time.Millisecond, w.Duration())
	require.Equal(t, 22050, w.Len())
	require.Equal(t, time.Duration(0), Waveform{Samples: make([]float32, 10)}.Duration())
}

func TestWaveformValidate(t *testing.T) {
	require.NoError(t, NewWaveform([]float32{0}, 16000).Validate())
	require.Error(t, NewWaveform([]float32{0}, 0).Validate())
	require.Error(t, NewWaveform(nil, 16000).Validate())
}

func TestWaveformClone(t *testing.T) {
	orig := NewWaveform([]float32{1, 2, 3}, 8000)
	clone := orig.Clone()
	clone.Samples[0] = 42
	require.Equal(t, float32(1), orig.Samples[0])
	require.Equal(t, orig.SampleRate, clone.SampleRate)
}

func TestSampleRateSamples(t *testing.T) {
	require.Equal(t, 480, SampleRate(48000).Samples(10*time.Millisecond))
	require.Equal(t, "44100Hz", SampleRate(44100).String())
}
