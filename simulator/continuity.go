package simulator

import (
	"math"

	"github.com/goshesim/goshe/physics"
	"github.com/goshesim/goshe/solvers"
)

// CarrierType distinguishes the two continuity equations; the hole equation
// sees the drift term with opposite sign.
type CarrierType uint8

const (
	Electron CarrierType = iota
	Hole
)

func (ct CarrierType) String() string {
	if ct == Electron {
		return "electron"
	}
	return "hole"
}

// bernoulli is the Scharfetter-Gummel growth function x/(exp(x)-1), stable
// at x = 0 and for large |x|.
func bernoulli(x float64) float64 {
	switch {
	case math.Abs(x) < 1.e-4:
		// series expansion around 0
		return 1.0 - x/2.0 + x*x/12.0
	case x > 500:
		return x * math.Exp(-x)
	case x < -500:
		return -x
	}
	return x / (math.Expm1(x))
}

// assembleContinuity builds the stationary Scharfetter-Gummel discretization
// of div J = 0 for one carrier against the current potential. Contact cells
// get Dirichlet rows fixing the density to its equilibrium value.
func (s *Simulator) assembleContinuity(ct CarrierType) (sys *solvers.System, err error) {
	var (
		msh     = s.dev.Mesh()
		cellDim = msh.CellDimension()
		sysN    = msh.NumCells()
		vt      = physics.ThermalVoltage(s.cfg.Temperature)
	)
	sys = solvers.NewSystem(sysN)

	for f := 0; f < msh.NumFacets(); f++ {
		cells, cerr := msh.CoboundaryElements(f, cellDim)
		if cerr != nil {
			err = cerr
			return
		}
		if len(cells) != 2 {
			continue
		}
		var (
			c1, c2 = cells[0], cells[1]
			d      float64
		)
		if d, err = centroidDistance(msh, c1, c2); err != nil {
			return
		}
		var (
			mu    = s.facetMobility(ct, c1, c2)
			coeff = mu * vt / d
			delta = (s.potential.AtVec(c2) - s.potential.AtVec(c1)) / vt
		)
		// particle flux c1 -> c2:
		//   electrons: F = coeff * (n1 B(-delta) - n2 B(delta))
		//   holes:     F = coeff * (p1 B(delta) - p2 B(-delta))
		var bOut, bIn float64
		if ct == Electron {
			bOut, bIn = bernoulli(-delta), bernoulli(delta)
		} else {
			bOut, bIn = bernoulli(delta), bernoulli(-delta)
		}
		sys.Add(c1, c1, coeff*bOut)
		sys.Add(c1, c2, -coeff*bIn)
		sys.Add(c2, c1, -coeff*bOut)
		sys.Add(c2, c2, coeff*bIn)
	}

	for c := 0; c < sysN; c++ {
		if _, ok := s.dev.ContactPotential(c); !ok {
			continue
		}
		neq, peq := physics.EquilibriumDensities(s.dev.DopingN(c), s.dev.DopingP(c))
		if ct == Electron {
			sys.SetDirichlet(c, neq)
		} else {
			sys.SetDirichlet(c, peq)
		}
	}
	return
}

// facetMobility averages the cell mobilities on both sides of a facet. For
// SHE carriers the enabled scattering mechanisms reduce the mobility in a
// Matthiessen-style combination; with no mechanism enabled transport is
// treated as scattering-free.
func (s *Simulator) facetMobility(ct CarrierType, c1, c2 int) (mu float64) {
	var (
		m1 = s.dev.MaterialOf(c1)
		m2 = s.dev.MaterialOf(c2)
	)
	if ct == Electron {
		mu = 0.5 * (m1.MuN + m2.MuN)
	} else {
		mu = 0.5 * (m1.MuP + m2.MuP)
	}
	if s.equationOf(ct) == SHE {
		if n := s.cfg.SHE.Scattering.EnabledCount(); n > 0 {
			mu /= float64(n)
		}
	}
	return
}

func (s *Simulator) equationOf(ct CarrierType) EquationKind {
	if ct == Electron {
		return s.cfg.ElectronEquation
	}
	return s.cfg.HoleEquation
}
