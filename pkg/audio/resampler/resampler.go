package resampler

import (
	"fmt"

	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

// Downmix collapses interleaved frames into mono by averaging the channels
// of each frame.
func Downmix(interleaved []float32, channels audio.Channel) ([]float32, error) {
	if channels == 0 {
		return nil, fmt.Errorf("the amount of channels is zero")
	}
	if len(interleaved)%int(channels) != 0 {
		return nil, fmt.Errorf("the amount of samples (%d) is not a multiple of the amount of channels (%d)", len(interleaved), channels)
	}
	if channels == 1 {
		out := make([]float32, len(interleaved))
		copy(out, interleaved)
		return out, nil
	}

	frames := len(interleaved) / int(channels)
	out := make([]float32, frames)
	for frameIdx := 0; frameIdx < frames; frameIdx++ {
		frame := interleaved[frameIdx*int(channels) : (frameIdx+1)*int(channels)]
		var sum float64
		for _, v := range frame {
			sum += float64(v)
		}
		out[frameIdx] = float32(sum / float64(channels))
	}
	return out, nil
}

// Resample converts mono samples from one sample rate to another using linear
// interpolation. The duration of the signal is preserved.
func Resample(samples []float32, from, to audio.SampleRate) ([]float32, error) {
	if from == 0 || to == 0 {
		return nil, fmt.Errorf("sample rates must be non-zero: %d -> %d", from, to)
	}
	if from == to || len(samples) == 0 {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	outLen := int((uint64(len(samples))*uint64(to) + uint64(from) - 1) / uint64(from))
	out := make([]float32, outLen)

	// the source position of the output sample dstIdx is dstIdx*from/to;
	// it is computed from scratch for every sample, so no error accumulates
	last := len(samples) - 1
	for dstIdx := range out {
		srcPos := uint64(dstIdx) * uint64(from)
		srcIdx := int(srcPos / uint64(to))
		if srcIdx >= last {
			out[dstIdx] = samples[last]
			continue
		}
		frac := float64(srcPos%uint64(to)) / float64(to)
		a, b := float64(samples[srcIdx]), float64(samples[srcIdx+1])
		out[dstIdx] = float32(a + (b-a)*frac)
	}
	return out, nil
}

func ResampleWaveform(w audio.Waveform, to audio.SampleRate) (audio.Waveform, error) {
	samples, err := Resample(w.Samples, w.SampleRate, to)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to resample from %v to %v: %w", w.SampleRate, to, err)
	}
	return audio.NewWaveform(samples, to), nil
}
