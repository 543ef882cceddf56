package types

import (
	"context"
	"errors"
	"io"

	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/device"
)

var ErrNotSupported = errors.New("not supported")

type Denoiser interface {
	// Denoise removes background noise. The returned waveform may have
	// a different sample rate than the input.
	Denoise(
		ctx context.Context,
		input audio.Waveform,
		dev device.Device,
	) (audio.Waveform, error)
}

type Enhancer interface {
	io.Closer
	Denoiser

	Ping(context.Context) error

	// Enhance runs the diffusion-based enhancement pass. The returned waveform
	// may have a different sample rate than the input.
	Enhance(
		ctx context.Context,
		input audio.Waveform,
		dev device.Device,
		params Params,
	) (audio.Waveform, error)
}

// Config is what a backend factory may need to construct a backend;
// fields a backend does not care about are ignored.
type Config struct {
	// ExecutablePath overrides the path to the external tool a backend drives.
	ExecutablePath string

	// Output receives the diagnostic output of external tools; nil discards it.
	Output io.Writer
}
