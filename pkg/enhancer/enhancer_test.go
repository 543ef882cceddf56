package enhancer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/device"
)

type halvingDenoiser struct{}

func (halvingDenoiser) Denoise(
	_ context.Context,
	input audio.Waveform,
	_ device.Device,
) (audio.Waveform, error) {
	out := input.Clone()
	for idx := range out.Samples {
		out.Samples[idx] /= 2
	}
	return out, nil
}

func TestDummy(t *testing.T) {
	ctx := context.Background()
	in := audio.NewWaveform([]float32{0.5, -0.5}, 16000)

	out, err := Dummy{}.Denoise(ctx, in, device.CPU)
	require.NoError(t, err)
	require.Equal(t, in, out)

	out, err = Dummy{}.Enhance(ctx, in, device.CPU, DefaultParams())
	require.NoError(t, err)
	require.Equal(t, in, out)

	_, err = Dummy{}.Enhance(ctx, in, device.CPU, Params{Solver: "heun", NFE: 1})
	require.ErrorIs(t, err, ErrUnknownSolver)
}

func TestWithDenoiser(t *testing.T) {
	ctx := context.Background()
	in := audio.NewWaveform([]float32{0.5, -0.5}, 16000)
	e := WithDenoiser(Dummy{}, halvingDenoiser{})

	denoised, err := e.Denoise(ctx, in, device.CPU)
	require.NoError(t, err)
	require.Equal(t, []float32{0.25, -0.25}, denoised.Samples)

	enhanced, err := e.Enhance(ctx, in, device.CPU, DefaultParams())
	require.NoError(t, err)
	require.Equal(t, in, enhanced)
	require.NoError(t, e.Close())
}
