package noisesuppression

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

type Dummy struct {
	SampleRateValue audio.SampleRate
}

var _ NoiseSuppression = (*Dummy)(nil)

func NewDummy(
	sampleRate audio.SampleRate,
) *Dummy {
	return &Dummy{
		SampleRateValue: sampleRate,
	}
}

func (s *Dummy) Close() error {
	return nil
}

func (s *Dummy) SampleRate(context.Context) (audio.SampleRate, error) {
	return s.SampleRateValue, nil
}

func (*Dummy) ChunkSize() uint {
	return 0
}

func (*Dummy) SuppressNoise(_ context.Context, input []float32, outputVoice []float32) (float64, error) {
	if len(input) != len(outputVoice) {
		return 0, fmt.Errorf("lengths of input and output slices are not equal: %d != %d", len(input), len(outputVoice))
	}
	copy(outputVoice, input)
	return 1, nil
}
