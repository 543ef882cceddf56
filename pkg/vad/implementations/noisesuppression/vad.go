package noisesuppression

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/audio/resampler"
	"github.com/xaionaro-go/audioenhance/pkg/noisesuppression"
	"github.com/xaionaro-go/audioenhance/pkg/vad"
)

// NewSuppressorFunc creates a noise suppressor with a clean state.
type NewSuppressorFunc func() (noisesuppression.NoiseSuppression, error)

// VAD uses the voice probability reported by a noise suppressor. Every
// DetectVoice call gets its own suppressor, so the recurrent state left by
// one waveform does not leak into the next one.
type VAD struct {
	NewSuppressor NewSuppressorFunc
	SampleRate    audio.SampleRate
	ChunkSize     int
	ChunkDuration time.Duration
}

var _ vad.VAD = (*VAD)(nil)

func NewVAD(
	ctx context.Context,
	newSuppressor NewSuppressorFunc,
	preferredGranularity time.Duration,
) (*VAD, error) {
	noiseSuppression, err := newSuppressor()
	if err != nil {
		return nil, fmt.Errorf("unable to create a noise suppressor: %w", err)
	}
	defer noiseSuppression.Close()

	sampleRate, err := noiseSuppression.SampleRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to get the sample rate: %w", err)
	}
	if sampleRate == 0 {
		return nil, fmt.Errorf("the noise suppressor reported a zero sample rate")
	}

	preferredChunkSize := sampleRate.Samples(preferredGranularity)
	chunkSize := preferredChunkSize
	if frameSize := int(noiseSuppression.ChunkSize()); frameSize > 0 {
		subChunks := (preferredChunkSize + frameSize/2) / frameSize
		if subChunks < 1 {
			subChunks = 1
		}
		chunkSize = subChunks * frameSize
	}
	if chunkSize < 1 {
		chunkSize = 1
	}
	chunkDuration := time.Duration(uint64(chunkSize) * uint64(time.Second) / uint64(sampleRate))
	logger.Debugf(ctx, "resulting chunkSize:%d and chunkDuration:%v", chunkSize, chunkDuration)

	return &VAD{
		NewSuppressor: newSuppressor,
		SampleRate:    sampleRate,
		ChunkSize:     chunkSize,
		ChunkDuration: chunkDuration,
	}, nil
}

func (v *VAD) Close() error {
	return nil
}

// DetectVoice feeds the waveform chunk by chunk; the last partial chunk
// is padded with silence.
func (v *VAD) DetectVoice(
	ctx context.Context,
	input audio.Waveform,
	confidenceThreshold float64,
) (_ret vad.Activity, _err error) {
	activity := vad.Activity{
		FirstVoice: -1,
		Total:      input.Duration(),
	}
	if input.Len() == 0 {
		return activity, nil
	}

	work, err := resampler.ResampleWaveform(input, v.SampleRate)
	if err != nil {
		return activity, err
	}
	samples := work.Samples
	if tailSize := len(samples) % v.ChunkSize; tailSize != 0 {
		samples = append(samples, make([]float32, v.ChunkSize-tailSize)...)
	}

	noiseSuppression, err := v.NewSuppressor()
	if err != nil {
		return activity, fmt.Errorf("unable to create a noise suppressor: %w", err)
	}
	defer func() {
		if err := noiseSuppression.Close(); err != nil && _err == nil {
			_err = err
		}
	}()
	buffer := make([]float32, v.ChunkSize)

	for pos := 0; len(samples) > 0; pos++ {
		if err := ctx.Err(); err != nil {
			return activity, err
		}
		frame := samples[:v.ChunkSize]
		samples = samples[v.ChunkSize:]

		confidence, err := noiseSuppression.SuppressNoise(ctx, frame, buffer)
		if err != nil {
			return activity, err
		}
		if confidence > activity.MaxConfidence {
			activity.MaxConfidence = confidence
		}
		if confidence < confidenceThreshold {
			continue
		}
		activity.Voice += v.ChunkDuration
		if activity.FirstVoice < 0 {
			activity.FirstVoice = v.ChunkDuration * time.Duration(pos)
		}
	}
	if activity.Voice > activity.Total {
		activity.Voice = activity.Total
	}
	return activity, nil
}
