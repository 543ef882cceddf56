//go:build !rnnoise
// +build !rnnoise

package rnnoise

import (
	"fmt"

	"github.com/xaionaro-go/audioenhance/pkg/noisesuppression"
)

type RNNoise = noisesuppression.Dummy

func New() (*RNNoise, error) {
	return nil, fmt.Errorf("built without tag 'rnnoise'")
}
