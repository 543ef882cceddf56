// Package syncer estimates the time offset between waveforms, which is used
// to check that a processing pass did not shift the signal.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

type ShiftResult struct {
	// Shift is in samples of the reference rate; positive means
	// the comparison is ahead of the reference.
	Shift float64

	// Confidence is within [0, 1].
	Confidence float64
}

// Duration converts the shift into time, given the rate of the reference.
func (r ShiftResult) Duration(sampleRate audio.SampleRate) time.Duration {
	if sampleRate == 0 {
		return 0
	}
	return time.Duration(r.Shift * float64(time.Second) / float64(sampleRate))
}

func (r ShiftResult) String() string {
	return fmt.Sprintf("shift:%.1f samples (confidence %.2f)", r.Shift, r.Confidence)
}

type Syncer interface {
	// CalculateShiftBetween returns, for every comparison waveform, how much
	// it needs to be shifted by to be synced with the reference.
	CalculateShiftBetween(
		ctx context.Context,
		reference audio.Waveform,
		comparisons ...audio.Waveform,
	) ([]ShiftResult, error)
}
