package denoiser

import (
	"io"

	"github.com/xaionaro-go/audioenhance/pkg/enhancer/types"
)

// Denoiser is a standalone denoising pass which may replace the one of
// an enhancement backend.
type Denoiser interface {
	io.Closer
	types.Denoiser
}
