// Package rnnoise binds the RNNoise recurrent noise suppressor; the real
// implementation requires building with the 'rnnoise' tag and librnnoise.
package rnnoise

import (
	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

const (
	Name = "rnnoise"

	SampleRate = audio.SampleRate(48_000)
)
