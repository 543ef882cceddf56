package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownSolver = errors.New("unknown solver")
	ErrInvalidNFE    = errors.New("invalid number of function evaluations")
)

type Solver string

const (
	SolverMidpoint = Solver("midpoint")
	SolverRK4      = Solver("rk4")
	SolverEuler    = Solver("euler")
)

func Solvers() []Solver {
	return []Solver{SolverMidpoint, SolverRK4, SolverEuler}
}

// ParseSolver accepts any casing and returns the lowercased solver name.
func ParseSolver(s string) (Solver, error) {
	solver := Solver(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Solvers() {
		if solver == known {
			return solver, nil
		}
	}
	return "", fmt.Errorf("%w '%s', expected one of: Midpoint, RK4, Euler", ErrUnknownSolver, s)
}

// String, Set and Type make *Solver usable as a pflag.Value.
func (s Solver) String() string {
	return string(s)
}

func (s *Solver) Set(v string) error {
	solver, err := ParseSolver(v)
	if err != nil {
		return err
	}
	*s = solver
	return nil
}

func (*Solver) Type() string {
	return "solver"
}

const (
	DefaultSolver = SolverMidpoint
	DefaultNFE    = 64
	DefaultTau    = 0.5

	LambdDenoising   = 0.9
	LambdNoDenoising = 0.1
)

// Params are the knobs of the enhancement pass.
type Params struct {
	Solver Solver

	// NFE is the number of function evaluations of the solver.
	NFE int

	// Lambd is the denoising strength.
	Lambd float64

	// Tau is the prior temperature.
	Tau float64
}

func LambdFor(denoising bool) float64 {
	if denoising {
		return LambdDenoising
	}
	return LambdNoDenoising
}

func NewParams(
	solver string,
	nfe int,
	tau float64,
	denoising bool,
) (Params, error) {
	s, err := ParseSolver(solver)
	if err != nil {
		return Params{}, err
	}
	p := Params{
		Solver: s,
		NFE:    nfe,
		Lambd:  LambdFor(denoising),
		Tau:    tau,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func DefaultParams() Params {
	return Params{
		Solver: DefaultSolver,
		NFE:    DefaultNFE,
		Lambd:  LambdNoDenoising,
		Tau:    DefaultTau,
	}
}

func (p Params) Validate() error {
	if _, err := ParseSolver(string(p.Solver)); err != nil {
		return err
	}
	if p.NFE < 1 {
		return fmt.Errorf("%w: %d (expected a positive integer)", ErrInvalidNFE, p.NFE)
	}
	return nil
}

// TauInRange reports if the prior temperature is within its intended range [0, 1].
func (p Params) TauInRange() bool {
	return p.Tau >= 0 && p.Tau <= 1
}

func (p Params) String() string {
	return fmt.Sprintf("solver:%s nfe:%d lambd:%g tau:%g", p.Solver, p.NFE, p.Lambd, p.Tau)
}

func NFEFromString(s string) (int, error) {
	nfe, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w '%s': %w", ErrInvalidNFE, s, err)
	}
	return nfe, nil
}
