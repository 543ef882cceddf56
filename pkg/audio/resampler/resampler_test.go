package resampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

func TestDownmix(t *testing.T) {
	t.Run("Mono", func(t *testing.T) {
		in := []float32{0.1, 0.2, 0.3}
		out, err := Downmix(in, 1)
		require.NoError(t, err)
		assert.Equal(t, in, out)
		out[0] = 1
		assert.Equal(t, float32(0.1), in[0])
	})

	t.Run("Stereo", func(t *testing.T) {
		out, err := Downmix([]float32{1, 0, 0.5, -0.5, -1, -1}, 2)
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.InDelta(t, 0.5, out[0], 1e-6)
		assert.InDelta(t, 0.0, out[1], 1e-6)
		assert.InDelta(t, -1.0, out[2], 1e-6)
	})

	t.Run("Quad", func(t *testing.T) {
		out, err := Downmix([]float32{1, 1, 0, 0}, 4)
		require.NoError(t, err)
		assert.Equal(t, []float32{0.5}, out)
	})

	t.Run("Misaligned", func(t *testing.T) {
		_, err := Downmix([]float32{1, 2, 3}, 2)
		require.Error(t, err)
	})

	t.Run("ZeroChannels", func(t *testing.T) {
		_, err := Downmix([]float32{1}, 0)
		require.Error(t, err)
	})
}

func TestResample(t *testing.T) {
	t.Run("Identity", func(t *testing.T) {
		in := []float32{0, 0.25, 0.5}
		out, err := Resample(in, 44100, 44100)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("Downsample_44100_to_22050", func(t *testing.T) {
		in := make([]float32, 100)
		for i := range in {
			in[i] = float32(i) / 100
		}
		out, err := Resample(in, 44100, 22050)
		require.NoError(t, err)
		require.Len(t, out, 50)
		assert.Equal(t, in[0], out[0])
		assert.InDelta(t, in[2], out[1], 1e-6)
		assert.InDelta(t, in[98], out[49], 1e-6)
	})

	t.Run("Upsample_interpolates", func(t *testing.T) {
		out, err := Resample([]float32{0, 1}, 8000, 16000)
		require.NoError(t, err)
		require.Len(t, out, 4)
		assert.InDelta(t, 0.0, out[0], 1e-6)
		assert.InDelta(t, 0.5, out[1], 1e-6)
		assert.InDelta(t, 1.0, out[2], 1e-6)
		assert.InDelta(t, 1.0, out[3], 1e-6)
	})

	t.Run("PreservesDuration", func(t *testing.T) {
		in := make([]float32, 44100)
		for i := range in {
			in[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
		}
		w, err := ResampleWaveform(audio.NewWaveform(in, 44100), 48000)
		require.NoError(t, err)
		assert.Equal(t, audio.SampleRate(48000), w.SampleRate)
		assert.Equal(t, 48000, w.Len())
		assert.Equal(t, audio.NewWaveform(in, 44100).Duration(), w.Duration())
	})

	t.Run("KeepsAlignment", func(t *testing.T) {
		// a minute long ramp whose value is its own position
		in := make([]float32, 60*44100)
		for i := range in {
			in[i] = float32(i)
		}

		up, err := Resample(in, 44100, 48000)
		require.NoError(t, err)
		require.Len(t, up, 60*48000)
		for _, idx := range []int{48000, 30 * 48000, 59 * 48000, len(up) - 100} {
			assert.InDelta(t, float64(idx)*44100/48000, up[idx], 0.5, "idx:%d", idx)
		}

		back, err := Resample(up, 48000, 44100)
		require.NoError(t, err)
		require.Len(t, back, len(in))
		for idx := 0; idx < len(back)-100; idx += 44100 {
			assert.InDelta(t, in[idx], back[idx], 1, "idx:%d", idx)
		}
	})

	t.Run("ZeroRate", func(t *testing.T) {
		_, err := Resample([]float32{1}, 0, 48000)
		require.Error(t, err)
	})
}
