package simulator

import (
	"fmt"
	"strings"

	"github.com/goshesim/goshe/physics"
	"github.com/goshesim/goshe/she"
	"github.com/goshesim/goshe/solvers"
)

// EquationKind selects the transport model solved for one carrier type.
type EquationKind uint8

const (
	// None disables the carrier: its density stays at the initial guess.
	None EquationKind = iota
	// Continuity solves the drift-diffusion continuity equation.
	Continuity
	// SHE solves the spherical-harmonics-expansion moment system.
	SHE
)

func (k EquationKind) String() string {
	switch k {
	case None:
		return "none"
	case Continuity:
		return "continuity"
	case SHE:
		return "she"
	}
	return "unknown"
}

// NewEquationKind maps a configuration label to an equation kind.
func NewEquationKind(label string) (k EquationKind, err error) {
	switch strings.ToLower(label) {
	case "", "none":
		k = None
	case "continuity", "dd":
		k = Continuity
	case "she":
		k = SHE
	default:
		err = fmt.Errorf("unknown equation kind %q", label)
	}
	return
}

// NonlinearConfig bounds the Gummel iteration.
type NonlinearConfig struct {
	MaxIters  int
	Damping   float64 // fraction of each candidate update applied, in (0,1]
	Tolerance float64 // convergence threshold on the residual norm
}

// Config describes one simulator run. A Simulator snapshots the Config at
// construction; later mutation has no effect on it.
type Config struct {
	Temperature float64 // lattice temperature [K]

	ElectronEquation EquationKind
	HoleEquation     EquationKind

	Nonlinear    NonlinearConfig
	SHE          she.Params // consulted only for carriers using the SHE kind
	LinearSolver solvers.Config
}

// DefaultConfig is a bipolar drift-diffusion setup at 300 K.
func DefaultConfig() Config {
	return Config{
		Temperature:      physics.T300,
		ElectronEquation: Continuity,
		HoleEquation:     Continuity,
		Nonlinear:        NonlinearConfig{MaxIters: 40, Damping: 1.0, Tolerance: 1.e-6},
		SHE:              she.DefaultParams(),
		LinearSolver:     solvers.DefaultConfig(),
	}
}

// InvalidConfigurationError reports a configuration rejected at simulator
// construction.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// Validate checks the configuration. SHE parameters are only inspected when a
// carrier actually uses the SHE equation kind.
func (c Config) Validate() error {
	if c.Temperature <= 0 {
		return &InvalidConfigurationError{Reason: fmt.Sprintf("temperature %g K", c.Temperature)}
	}
	if c.Nonlinear.MaxIters < 0 {
		return &InvalidConfigurationError{Reason: fmt.Sprintf("negative iteration cap %d", c.Nonlinear.MaxIters)}
	}
	if c.Nonlinear.Damping <= 0 || c.Nonlinear.Damping > 1 {
		return &InvalidConfigurationError{
			Reason: fmt.Sprintf("damping %g outside (0,1]", c.Nonlinear.Damping)}
	}
	if c.Nonlinear.Tolerance <= 0 {
		return &InvalidConfigurationError{
			Reason: fmt.Sprintf("tolerance %g must be positive", c.Nonlinear.Tolerance)}
	}
	if c.ElectronEquation == SHE || c.HoleEquation == SHE {
		if err := c.SHE.Validate(); err != nil {
			return &InvalidConfigurationError{Reason: err.Error()}
		}
	}
	return nil
}

// snapshot deep-copies the config so a constructed simulator is isolated from
// later mutation of the caller's Config value.
func (c Config) snapshot() Config {
	r := c
	r.LinearSolver.Args = append([]string(nil), c.LinearSolver.Args...)
	return r
}
