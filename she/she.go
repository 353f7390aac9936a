// Package she holds the spherical-harmonics-expansion discretization
// parameters and the energy-distribution-function storage. The full harmonic
// basis assembly is treated as an equation source producing per-cell,
// per-energy coefficients; the nonlinear driver consumes its moments.
package she

import (
	"fmt"
	"math"

	"github.com/goshesim/goshe/physics"
)

// Scattering enables individual scattering mechanisms. Disabled mechanisms
// contribute nothing to the collision operator.
type Scattering struct {
	Acoustic bool `yaml:"Acoustic"`
	Optical  bool `yaml:"Optical"`
	Impurity bool `yaml:"Impurity"`
}

// EnabledCount returns the number of enabled mechanisms.
func (s Scattering) EnabledCount() (n int) {
	for _, on := range []bool{s.Acoustic, s.Optical, s.Impurity} {
		if on {
			n++
		}
	}
	return
}

// Params configures the SHE discretization for one carrier.
type Params struct {
	MaxExpansionOrder int        // highest spherical harmonic order L
	EnergySpacing     float64    // energy grid spacing [J]
	MaxKineticEnergy  float64    // top of the simulated energy range [J]
	Scattering        Scattering // enabled mechanisms
}

// DefaultParams mirrors the common first-order setup: L = 1, 31 meV spacing,
// 1 eV energy range, acoustic and optical phonon scattering on.
func DefaultParams() Params {
	return Params{
		MaxExpansionOrder: 1,
		EnergySpacing:     31.0e-3 * physics.Q,
		MaxKineticEnergy:  1.0 * physics.Q,
		Scattering:        Scattering{Acoustic: true, Optical: true},
	}
}

// Validate rejects degenerate discretizations.
func (p Params) Validate() error {
	if p.MaxExpansionOrder < 1 {
		return fmt.Errorf("SHE expansion order must be >= 1, got %d", p.MaxExpansionOrder)
	}
	if p.EnergySpacing <= 0 {
		return fmt.Errorf("SHE energy spacing must be positive, got %g", p.EnergySpacing)
	}
	if p.MaxKineticEnergy <= p.EnergySpacing {
		return fmt.Errorf("SHE energy range %g shorter than spacing %g",
			p.MaxKineticEnergy, p.EnergySpacing)
	}
	return nil
}

// NumHarmonics returns the number of spherical harmonics Y_lm with l <= L.
func NumHarmonics(order int) int { return (order + 1) * (order + 1) }

// EnergyGrid is the uniform total-energy discretization.
type EnergyGrid struct {
	Levels  []float64 // level midpoint energies [J]
	Spacing float64
}

// NewEnergyGrid discretizes [0, maxEnergy] into uniform boxes.
func NewEnergyGrid(spacing, maxEnergy float64) (g EnergyGrid, err error) {
	if spacing <= 0 || maxEnergy <= spacing {
		err = fmt.Errorf("invalid energy grid: spacing %g, range %g", spacing, maxEnergy)
		return
	}
	n := int(math.Ceil(maxEnergy / spacing))
	g = EnergyGrid{Levels: make([]float64, n), Spacing: spacing}
	for i := range g.Levels {
		g.Levels[i] = (float64(i) + 0.5) * spacing
	}
	return
}

// DOS is the parabolic-band density of states shape, sqrt(E), normalized by
// the caller through the partition sum.
func DOS(energy float64) float64 {
	if energy <= 0 {
		return 0
	}
	return math.Sqrt(energy)
}

// Distribution stores the expansion coefficients f_lm(cell, energy).
type Distribution struct {
	NumCells, NumLevels, NumHarm int
	Grid                         EnergyGrid
	coeffs                       []float64
}

func NewDistribution(numCells int, grid EnergyGrid, order int) *Distribution {
	var (
		nh = NumHarmonics(order)
		nl = len(grid.Levels)
	)
	return &Distribution{
		NumCells:  numCells,
		NumLevels: nl,
		NumHarm:   nh,
		Grid:      grid,
		coeffs:    make([]float64, numCells*nl*nh),
	}
}

func (d *Distribution) index(cell, level, harm int) int {
	return (cell*d.NumLevels+level)*d.NumHarm + harm
}

func (d *Distribution) At(cell, level, harm int) float64 {
	return d.coeffs[d.index(cell, level, harm)]
}

func (d *Distribution) Set(cell, level, harm int, val float64) {
	d.coeffs[d.index(cell, level, harm)] = val
}

// Density integrates the zeroth moment over energy: the carrier density the
// distribution represents at one cell.
func (d *Distribution) Density(cell int) (n float64) {
	for l := 0; l < d.NumLevels; l++ {
		n += d.At(cell, l, 0) * DOS(d.Grid.Levels[l]) * d.Grid.Spacing
	}
	return
}

// SetEquilibrium fills the zeroth harmonic with a Maxwellian at temperature T
// normalized to reproduce density at the cell; higher harmonics are cleared.
func (d *Distribution) SetEquilibrium(cell int, density, T float64) {
	var (
		kT = physics.KB * T
		z  float64
	)
	for _, e := range d.Grid.Levels {
		z += DOS(e) * math.Exp(-e/kT) * d.Grid.Spacing
	}
	for l, e := range d.Grid.Levels {
		d.Set(cell, l, 0, density*math.Exp(-e/kT)/z)
		for h := 1; h < d.NumHarm; h++ {
			d.Set(cell, l, h, 0)
		}
	}
}

// Copy returns an independent snapshot, used when a distribution is handed to
// another simulator as an initial guess.
func (d *Distribution) Copy() *Distribution {
	r := &Distribution{
		NumCells:  d.NumCells,
		NumLevels: d.NumLevels,
		NumHarm:   d.NumHarm,
		Grid:      d.Grid,
		coeffs:    append([]float64(nil), d.coeffs...),
	}
	return r
}
