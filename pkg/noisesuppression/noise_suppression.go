package noisesuppression

import (
	"context"
	"io"

	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

// NoiseSuppression is a frame-based mono noise suppressor.
type NoiseSuppression interface {
	io.Closer

	SampleRate(context.Context) (audio.SampleRate, error)

	// ChunkSize is the amount of samples SuppressNoise consumes at once;
	// the input length must be a multiple of it. Zero means any length.
	ChunkSize() uint

	// SuppressNoise returns the highest voice activity probability seen in the input.
	SuppressNoise(ctx context.Context, input []float32, outputVoice []float32) (float64, error)
}
