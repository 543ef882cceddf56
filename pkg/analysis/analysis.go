// Package analysis computes a few signal statistics used to compare the
// input against the processed outputs.
package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/brettbuddin/fourier"
	"github.com/mjibson/go-dsp/window"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

const (
	// FrameSize is the amount of samples per FFT frame; must be a power of two.
	FrameSize = 1024
)

type Stats struct {
	Duration time.Duration

	// RMS and Peak are linear amplitudes relative to full scale.
	RMS  float64
	Peak float64

	// SpectralCentroid is the magnitude-weighted mean frequency in Hz,
	// zero for silence.
	SpectralCentroid float64
}

func (s Stats) RMSdBFS() float64 {
	return toDBFS(s.RMS)
}

func (s Stats) PeakdBFS() float64 {
	return toDBFS(s.Peak)
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"duration:%v rms:%.1fdBFS peak:%.1fdBFS centroid:%.0fHz",
		s.Duration, s.RMSdBFS(), s.PeakdBFS(), s.SpectralCentroid,
	)
}

func toDBFS(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

func Analyze(w audio.Waveform) (Stats, error) {
	if err := w.Validate(); err != nil {
		return Stats{}, err
	}

	var sumSquares, peak float64
	for _, v := range w.Samples {
		f := float64(v)
		sumSquares += f * f
		if a := math.Abs(f); a > peak {
			peak = a
		}
	}

	centroid, err := spectralCentroid(w.Samples, w.SampleRate)
	if err != nil {
		return Stats{}, fmt.Errorf("unable to calculate the spectral centroid: %w", err)
	}

	return Stats{
		Duration:         w.Duration(),
		RMS:              math.Sqrt(sumSquares / float64(len(w.Samples))),
		Peak:             peak,
		SpectralCentroid: centroid,
	}, nil
}

func spectralCentroid(samples []float32, sampleRate audio.SampleRate) (float64, error) {
	// a short signal is zero-padded into a single frame, otherwise
	// only whole frames are analyzed
	frameSize := FrameSize
	frameCount := len(samples) / frameSize
	if frameCount == 0 {
		frameSize = nextPowerOfTwo(len(samples))
		frameCount = 1
	}
	hann := window.Hann(frameSize)
	binWidth := float64(sampleRate) / float64(frameSize)

	coeffs := make([]complex128, frameSize)
	var weighted, total float64
	for frameIdx := 0; frameIdx < frameCount; frameIdx++ {
		pos := frameIdx * frameSize
		frame := samples[pos:min(pos+frameSize, len(samples))]
		for idx := range coeffs {
			var v float64
			if idx < len(frame) {
				v = float64(frame[idx])
			}
			coeffs[idx] = complex(v*hann[idx], 0)
		}
		if err := fourier.Forward(coeffs); err != nil {
			return 0, err
		}
		for bin := 0; bin <= frameSize/2; bin++ {
			c := coeffs[bin]
			magnitude := math.Hypot(real(c), imag(c))
			weighted += float64(bin) * binWidth * magnitude
			total += magnitude
		}
	}
	if total == 0 {
		return 0, nil
	}
	return weighted / total, nil
}

func nextPowerOfTwo(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}
