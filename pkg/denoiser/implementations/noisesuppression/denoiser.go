package noisesuppression

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/audio/resampler"
	"github.com/xaionaro-go/audioenhance/pkg/denoiser"
	"github.com/xaionaro-go/audioenhance/pkg/device"
	"github.com/xaionaro-go/audioenhance/pkg/noisesuppression"
)

// Denoiser runs a frame-based noise suppressor over a whole waveform.
type Denoiser struct {
	noisesuppression.NoiseSuppression
}

var _ denoiser.Denoiser = (*Denoiser)(nil)

func New(noiseSuppression noisesuppression.NoiseSuppression) *Denoiser {
	return &Denoiser{
		NoiseSuppression: noiseSuppression,
	}
}

func (d *Denoiser) Denoise(
	ctx context.Context,
	input audio.Waveform,
	dev device.Device,
) (_ret audio.Waveform, _err error) {
	logger.Debugf(ctx, "Denoise(%v, %v)", input, dev)
	defer func() { logger.Debugf(ctx, "/Denoise(%v, %v): %v %v", input, dev, _ret, _err) }()

	if err := input.Validate(); err != nil {
		return audio.Waveform{}, fmt.Errorf("invalid input: %w", err)
	}
	if dev.IsAccelerator() {
		logger.Debugf(ctx, "the noise suppressor %T always runs on the CPU", d.NoiseSuppression)
	}

	sampleRate, err := d.NoiseSuppression.SampleRate(ctx)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to get the sample rate of the noise suppressor: %w", err)
	}

	work, err := resampler.ResampleWaveform(input, sampleRate)
	if err != nil {
		return audio.Waveform{}, err
	}

	samples := work.Samples
	if chunkSize := int(d.ChunkSize()); chunkSize > 0 {
		if tailSize := len(samples) % chunkSize; tailSize != 0 {
			samples = append(samples, make([]float32, chunkSize-tailSize)...)
		}
	}

	output := make([]float32, len(samples))
	voiceProb, err := d.NoiseSuppression.SuppressNoise(ctx, samples, output)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to suppress the noise: %w", err)
	}
	logger.Debugf(ctx, "max voice activity probability: %f", voiceProb)

	denoised := audio.NewWaveform(output[:len(work.Samples)], sampleRate)
	return resampler.ResampleWaveform(denoised, input.SampleRate)
}
