package simulator

import (
	"github.com/goshesim/goshe/physics"
	"github.com/goshesim/goshe/solvers"
)

// assemblePoisson builds the dual-box discretization of Poisson's equation,
// -div(eps grad psi) = q (p - n + ND - NA), with Dirichlet rows on contact
// cells. Carrier densities enter through the space-charge right-hand side.
func (s *Simulator) assemblePoisson() (sys *solvers.System, err error) {
	var (
		msh     = s.dev.Mesh()
		cellDim = msh.CellDimension()
		sysN    = msh.NumCells()
	)
	sys = solvers.NewSystem(sysN)

	// facet couplings between coboundary cell pairs
	for f := 0; f < msh.NumFacets(); f++ {
		cells, cerr := msh.CoboundaryElements(f, cellDim)
		if cerr != nil {
			err = cerr
			return
		}
		if len(cells) != 2 {
			continue // boundary facet, no coupling
		}
		var (
			c1, c2 = cells[0], cells[1]
			d      float64
		)
		if d, err = centroidDistance(msh, c1, c2); err != nil {
			return
		}
		eps := 0.5 * (s.dev.MaterialOf(c1).EpsR + s.dev.MaterialOf(c2).EpsR) * physics.Eps0
		k := eps / d
		sys.Add(c1, c1, k)
		sys.Add(c2, c2, k)
		sys.Add(c1, c2, -k)
		sys.Add(c2, c1, -k)
	}

	// cell terms: space charge on semiconductor cells, Dirichlet on contacts.
	// Ohmic contacts pin the potential at applied bias plus the built-in
	// potential of the contact doping, so zero bias reproduces equilibrium.
	for c := 0; c < sysN; c++ {
		if v, ok := s.dev.ContactPotential(c); ok {
			sys.SetDirichlet(c, v+physics.BuiltInPotential(s.cfg.Temperature,
				s.dev.DopingN(c), s.dev.DopingP(c)))
			continue
		}
		vol, verr := cellVolume(msh, c)
		if verr != nil {
			err = verr
			return
		}
		rho := physics.Q * (s.p.AtVec(c) - s.n.AtVec(c) + s.dev.DopingN(c) - s.dev.DopingP(c))
		sys.AddRHS(c, rho*vol)
	}
	return
}
