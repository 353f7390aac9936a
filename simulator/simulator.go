// Package simulator drives the damped Gummel iteration coupling the Poisson
// equation with the configured carrier transport equations (drift-diffusion
// continuity or SHE moments) until self-consistency.
package simulator

import (
	"fmt"

	"github.com/goshesim/goshe/device"
	"github.com/goshesim/goshe/physics"
	"github.com/goshesim/goshe/she"
	"github.com/goshesim/goshe/utils"
)

// State is the simulator lifecycle state.
type State uint8

const (
	Uninitialized State = iota
	Configured
	Running
	Converged
	MaxIterationsReached
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Configured:
		return "configured"
	case Running:
		return "running"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max iterations reached"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Quantity names the solved fields readable after a run and settable as
// another run's initial guess.
type Quantity string

const (
	PotentialQuantity       Quantity = "potential"
	ElectronDensityQuantity Quantity = "electron_density"
	HoleDensityQuantity     Quantity = "hole_density"
)

// Simulator owns the solved field state for one run. It is constructed in
// the Configured state, driven to a terminal state by Run, and read-only
// afterwards.
type Simulator struct {
	dev *device.Device
	cfg Config

	state State

	potential utils.Vector // per cell [V]
	n, p      utils.Vector // per cell [1/m^3]

	edfN, edfP *she.Distribution

	iterations int
	residual   float64
}

// New validates and snapshots the configuration, sets equilibrium initial
// guesses from the device doping, and returns a Configured simulator.
func New(dev *device.Device, cfg Config) (s *Simulator, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	if err = dev.Validate(); err != nil {
		return
	}
	var (
		nc = dev.Mesh().NumCells()
	)
	s = &Simulator{
		dev:       dev,
		cfg:       cfg.snapshot(),
		state:     Configured,
		potential: utils.NewVector(nc),
		n:         utils.NewVector(nc),
		p:         utils.NewVector(nc),
	}
	for c := 0; c < nc; c++ {
		neq, peq := physics.EquilibriumDensities(dev.DopingN(c), dev.DopingP(c))
		s.n.Set(c, neq)
		s.p.Set(c, peq)
		s.potential.Set(c, physics.BuiltInPotential(cfg.Temperature, dev.DopingN(c), dev.DopingP(c)))
	}
	if cfg.ElectronEquation == SHE || cfg.HoleEquation == SHE {
		var grid she.EnergyGrid
		if grid, err = she.NewEnergyGrid(cfg.SHE.EnergySpacing, cfg.SHE.MaxKineticEnergy); err != nil {
			s = nil
			return
		}
		if cfg.ElectronEquation == SHE {
			s.edfN = she.NewDistribution(nc, grid, cfg.SHE.MaxExpansionOrder)
		}
		if cfg.HoleEquation == SHE {
			s.edfP = she.NewDistribution(nc, grid, cfg.SHE.MaxExpansionOrder)
		}
	}
	return
}

func (s *Simulator) State() State           { return s.state }
func (s *Simulator) Device() *device.Device { return s.dev }
func (s *Simulator) Iterations() int        { return s.iterations }
func (s *Simulator) Residual() float64      { return s.residual }

// Config returns a copy of the snapshot the simulator runs with.
func (s *Simulator) Config() Config { return s.cfg.snapshot() }

// Potential returns a copy of the electrostatic potential per cell [V].
func (s *Simulator) Potential() []float64 {
	return append([]float64(nil), s.potential.DataP()...)
}

// ElectronDensity returns a copy of the electron density per cell [1/m^3].
func (s *Simulator) ElectronDensity() []float64 {
	return append([]float64(nil), s.n.DataP()...)
}

// HoleDensity returns a copy of the hole density per cell [1/m^3].
func (s *Simulator) HoleDensity() []float64 {
	return append([]float64(nil), s.p.DataP()...)
}

// ElectronEDF returns a copy of the electron energy distribution function,
// or nil when electrons do not use the SHE equation.
func (s *Simulator) ElectronEDF() *she.Distribution {
	if s.edfN == nil {
		return nil
	}
	return s.edfN.Copy()
}

// HoleEDF returns a copy of the hole energy distribution function, or nil.
func (s *Simulator) HoleEDF() *she.Distribution {
	if s.edfP == nil {
		return nil
	}
	return s.edfP.Copy()
}

// Quantity returns a copy of a named solved field.
func (s *Simulator) Quantity(name Quantity) (values []float64, err error) {
	switch name {
	case PotentialQuantity:
		values = s.Potential()
	case ElectronDensityQuantity:
		values = s.ElectronDensity()
	case HoleDensityQuantity:
		values = s.HoleDensity()
	default:
		err = fmt.Errorf("unknown quantity %q", name)
	}
	return
}

// SetInitialGuess replaces the starting values of a named quantity, typically
// read from a previous lower-fidelity run. The supplied slice is copied; the
// source simulator is never mutated. Only legal before Run.
func (s *Simulator) SetInitialGuess(name Quantity, values []float64) error {
	if s.state != Configured {
		return fmt.Errorf("initial guess only settable in configured state, simulator is %s", s.state)
	}
	var dst utils.Vector
	switch name {
	case PotentialQuantity:
		dst = s.potential
	case ElectronDensityQuantity:
		dst = s.n
	case HoleDensityQuantity:
		dst = s.p
	default:
		return fmt.Errorf("unknown quantity %q", name)
	}
	if len(values) != dst.Len() {
		return fmt.Errorf("initial guess for %q has %d values, device has %d cells",
			name, len(values), dst.Len())
	}
	copy(dst.DataP(), values)
	return nil
}
