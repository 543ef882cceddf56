package gccphat

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/audio/resampler"
)

// whitenThreshold is relative to the strongest bin of the cross-power
// spectrum (60dB down); weaker bins are ignored.
const whitenThreshold = 0.001

// toSamples brings the waveform to the given rate, truncates it to
// maxSamples (if positive) and widens it to float64.
func toSamples(
	w audio.Waveform,
	sampleRate audio.SampleRate,
	maxSamples int,
) ([]float64, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w.SampleRate != sampleRate {
		var err error
		w, err = resampler.ResampleWaveform(w, sampleRate)
		if err != nil {
			return nil, err
		}
	}
	in := w.Samples
	if maxSamples > 0 && len(in) > maxSamples {
		in = in[:maxSamples]
	}
	out := make([]float64, len(in))
	for idx, v := range in {
		out[idx] = float64(v)
	}
	return out, nil
}

// spectrum zero-pads the samples to n and transforms them to the frequency domain.
func spectrum(samples []float64, n int) []complex128 {
	padded := make([]complex128, n)
	for idx, v := range samples {
		padded[idx] = complex(v, 0)
	}
	return fft.FFT(padded)
}

// CrossCorrelate estimates the shift of the comparison relative to the
// reference by GCC-PHAT. Both arguments are spectra of the same length;
// only the bins within [minFreq, maxFreq] are considered (zero disables
// a limit).
//
// A positive shift means the comparison leads the reference.
func CrossCorrelate(
	fref, fcomp []complex128,
	sampleRate float64,
	minFreq, maxFreq float64,
) (shift float64, confidence float64, _err error) {
	if sampleRate <= 0 {
		return 0, 0, fmt.Errorf("sampleRate must be positive: got %v", sampleRate)
	}
	if len(fref) != len(fcomp) {
		return 0, 0, fmt.Errorf("fref and fcomp must have same length: %d != %d", len(fref), len(fcomp))
	}
	n := len(fref)
	if n == 0 {
		return 0, 0, nil
	}

	binMin, binMax := 0, n/2
	if minFreq > 0 {
		binMin = int(minFreq * float64(n) / sampleRate)
	}
	if maxFreq > 0 && maxFreq < sampleRate/2 {
		binMax = int(maxFreq * float64(n) / sampleRate)
	}

	crossPower := make([]complex128, n)
	var maxMag float64
	for idx := range crossPower {
		crossPower[idx] = fcomp[idx] * cmplx.Conj(fref[idx])
		if mag := cmplx.Abs(crossPower[idx]); mag > maxMag {
			maxMag = mag
		}
	}
	threshold := maxMag * whitenThreshold

	activeBins := 0
	for idx, v := range crossPower {
		bin := idx
		if idx > n/2 {
			bin = n - idx
		}
		mag := cmplx.Abs(v)
		if bin < binMin || bin > binMax || mag <= threshold || mag <= 1e-12 {
			crossPower[idx] = 0
			continue
		}
		crossPower[idx] = v / complex(mag, 0)
		activeBins++
	}
	if activeBins == 0 {
		return 0, 0, nil
	}

	correlation := fft.IFFT(crossPower)
	peakIdx, peak := 0, -1.0
	for idx, v := range correlation {
		if mag := cmplx.Abs(v); mag > peak {
			peakIdx, peak = idx, mag
		}
	}

	lag := float64(peakIdx)
	if lag > float64(n/2) {
		lag -= float64(n)
	}
	if peakIdx > 0 && peakIdx < n-1 {
		lag += parabolicOffset(
			cmplx.Abs(correlation[peakIdx-1]),
			peak,
			cmplx.Abs(correlation[peakIdx+1]),
		)
	}

	// a perfect match gives a peak of activeBins/n
	confidence = math.Min(peak*float64(n)/float64(activeBins), 1)

	// the peak is at the lag of the comparison, leading is the opposite
	return -lag, confidence, nil
}

// parabolicOffset refines a peak position with the vertex of the parabola
// through three neighbouring values.
func parabolicOffset(left, center, right float64) float64 {
	denom := left - 2*center + right
	if math.Abs(denom) <= 1e-12 {
		return 0
	}
	return (left - right) / (2 * denom)
}
