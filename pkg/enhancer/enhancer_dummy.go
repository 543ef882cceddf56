package enhancer

import (
	"context"

	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/device"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer/registry"
)

const DummyName = "dummy"

func init() {
	registry.RegisterEnhancerFactory(registry.PriorityManualOnly, DummyFactory{})
}

type DummyFactory struct{}

func (DummyFactory) Name() string {
	return DummyName
}

func (DummyFactory) NewEnhancer(Config) (Enhancer, error) {
	return Dummy{}, nil
}

// Dummy returns copies of its input: no model is involved.
type Dummy struct{}

var _ Enhancer = Dummy{}

func (Dummy) Close() error {
	return nil
}

func (Dummy) Ping(context.Context) error {
	return nil
}

func (Dummy) Denoise(
	_ context.Context,
	input audio.Waveform,
	_ device.Device,
) (audio.Waveform, error) {
	return input.Clone(), nil
}

func (Dummy) Enhance(
	_ context.Context,
	input audio.Waveform,
	_ device.Device,
	params Params,
) (audio.Waveform, error) {
	if err := params.Validate(); err != nil {
		return audio.Waveform{}, err
	}
	return input.Clone(), nil
}
