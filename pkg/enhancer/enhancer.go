// Package enhancer defines the speech denoising/enhancement backends
// and picks one of them.
package enhancer

import (
	"github.com/xaionaro-go/audioenhance/pkg/enhancer/types"
)

type (
	Denoiser = types.Denoiser
	Enhancer = types.Enhancer
	Config   = types.Config
	Params   = types.Params
	Solver   = types.Solver
)

const (
	SolverMidpoint = types.SolverMidpoint
	SolverRK4      = types.SolverRK4
	SolverEuler    = types.SolverEuler
)

var (
	ErrNotSupported  = types.ErrNotSupported
	ErrUnknownSolver = types.ErrUnknownSolver
	ErrInvalidNFE    = types.ErrInvalidNFE
)

func NewParams(solver string, nfe int, tau float64, denoising bool) (Params, error) {
	return types.NewParams(solver, nfe, tau, denoising)
}

func DefaultParams() Params {
	return types.DefaultParams()
}

// WithDenoiser returns an Enhancer which uses the given Denoiser for
// the denoising pass and the backend for everything else.
func WithDenoiser(backend Enhancer, denoiser Denoiser) Enhancer {
	return &withDenoiser{
		Enhancer: backend,
		denoiser: denoiser,
	}
}

type withDenoiser struct {
	Enhancer
	denoiser Denoiser
}
