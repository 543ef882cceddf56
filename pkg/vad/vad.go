// Package vad measures voice activity in a waveform.
package vad

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

const DefaultConfidenceThreshold = 0.5

type Activity struct {
	// MaxConfidence is the highest voice probability seen.
	MaxConfidence float64

	// FirstVoice is the position of the first chunk with voice, or -1.
	FirstVoice time.Duration

	// Voice is the total duration of chunks with voice.
	Voice time.Duration

	Total time.Duration
}

func (a Activity) Ratio() float64 {
	if a.Total <= 0 {
		return 0
	}
	return float64(a.Voice) / float64(a.Total)
}

func (a Activity) String() string {
	if a.FirstVoice < 0 {
		return fmt.Sprintf("no voice (max confidence %.2f)", a.MaxConfidence)
	}
	return fmt.Sprintf("voice %v of %v (%.0f%%) starting at %v, max confidence %.2f",
		a.Voice, a.Total, a.Ratio()*100, a.FirstVoice, a.MaxConfidence)
}

type VAD interface {
	io.Closer

	DetectVoice(
		ctx context.Context,
		input audio.Waveform,
		confidenceThreshold float64,
	) (Activity, error)
}
