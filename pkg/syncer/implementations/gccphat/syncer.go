// Package gccphat implements an audio synchronization algorithm using
// Generalized Cross-Correlation with Phase Transform (GCC-PHAT).
//
// The delay between two signals is found from their cross-correlation
// in the frequency domain. Normalizing the magnitude (the Phase Transform)
// makes it robust against changes of volume and spectral coloring, which
// is exactly what a denoising or enhancement pass introduces.
package gccphat

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/syncer"
)

const (
	DefaultMinFreq = 100
	DefaultMaxFreq = 12000

	// DefaultMaxDurationSeconds bounds the analyzed head of every waveform.
	DefaultMaxDurationSeconds = 30
)

type Syncer struct {
	MinFreq float64
	MaxFreq float64

	// MaxDurationSeconds limits the analysis to the head of the waveforms;
	// zero means the whole waveforms.
	MaxDurationSeconds uint
}

var _ syncer.Syncer = (*Syncer)(nil)

func NewSyncer() *Syncer {
	return &Syncer{
		MinFreq:            DefaultMinFreq,
		MaxFreq:            DefaultMaxFreq,
		MaxDurationSeconds: DefaultMaxDurationSeconds,
	}
}

func (s *Syncer) CalculateShiftBetween(
	ctx context.Context,
	reference audio.Waveform,
	comparisons ...audio.Waveform,
) (_ret []syncer.ShiftResult, _err error) {
	logger.Tracef(ctx, "CalculateShiftBetween(%v, %d comparisons)", reference, len(comparisons))
	defer func() { logger.Tracef(ctx, "/CalculateShiftBetween: %v %v", _ret, _err) }()

	sampleRate := reference.SampleRate
	maxSamples := int(sampleRate) * int(s.MaxDurationSeconds)
	refSamples, err := toSamples(reference, sampleRate, maxSamples)
	if err != nil {
		return nil, fmt.Errorf("invalid reference: %w", err)
	}

	results := make([]syncer.ShiftResult, len(comparisons))
	for idx, comparison := range comparisons {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		compSamples, err := toSamples(comparison, sampleRate, maxSamples)
		if err != nil {
			return nil, fmt.Errorf("invalid comparison #%d: %w", idx, err)
		}

		// a power of two of at least n1+n2-1 avoids circular convolution artifacts
		n := 1
		for n < len(refSamples)+len(compSamples)-1 {
			n <<= 1
		}

		shift, confidence, err := CrossCorrelate(
			spectrum(refSamples, n),
			spectrum(compSamples, n),
			float64(sampleRate),
			s.MinFreq, s.MaxFreq,
		)
		if err != nil {
			return nil, fmt.Errorf("unable to cross-correlate comparison #%d: %w", idx, err)
		}
		results[idx] = syncer.ShiftResult{
			Shift:      shift,
			Confidence: confidence,
		}
	}
	return results, nil
}
