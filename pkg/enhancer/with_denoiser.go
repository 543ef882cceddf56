package enhancer

import (
	"context"

	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/device"
)

func (e *withDenoiser) Denoise(
	ctx context.Context,
	input audio.Waveform,
	dev device.Device,
) (audio.Waveform, error) {
	return e.denoiser.Denoise(ctx, input, dev)
}
