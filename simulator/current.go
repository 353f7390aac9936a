package simulator

import (
	"fmt"

	"github.com/goshesim/goshe/dualbox"
	"github.com/goshesim/goshe/mesh"
	"github.com/goshesim/goshe/physics"
)

// terminalState guards the post-processing accessors: currents are only
// meaningful once the run reached a terminal state with solved fields.
func (s *Simulator) terminalState() error {
	switch s.state {
	case Converged, MaxIterationsReached:
		return nil
	}
	return fmt.Errorf("currents require a finished run, state is %s", s.state)
}

// facetParticleFlux returns the Scharfetter-Gummel particle flux through an
// interior facet, oriented from the facet's primary cell to its neighbor.
// Boundary facets carry zero flux.
func (s *Simulator) facetParticleFlux(ct CarrierType, facet int) (flux float64, err error) {
	var (
		msh = s.dev.Mesh()
		vt  = physics.ThermalVoltage(s.cfg.Temperature)
	)
	cells, err := msh.CoboundaryElements(facet, msh.CellDimension())
	if err != nil {
		return
	}
	if len(cells) != 2 {
		return
	}
	var (
		c1, c2 = cells[0], cells[1]
		d      float64
	)
	if d, err = centroidDistance(msh, c1, c2); err != nil {
		return
	}
	var (
		coeff = s.facetMobility(ct, c1, c2) * vt / d
		delta = (s.potential.AtVec(c2) - s.potential.AtVec(c1)) / vt
	)
	if ct == Electron {
		flux = coeff * (s.n.AtVec(c1)*bernoulli(-delta) - s.n.AtVec(c2)*bernoulli(delta))
	} else {
		flux = coeff * (s.p.AtVec(c1)*bernoulli(delta) - s.p.AtVec(c2)*bernoulli(-delta))
	}
	return
}

// FacetCurrentDensity returns the conventional current normal component per
// facet, signed relative to each facet's primary-cell orientation [A/m^2].
func (s *Simulator) FacetCurrentDensity(ct CarrierType) (j []float64, err error) {
	if err = s.terminalState(); err != nil {
		return
	}
	var (
		msh  = s.dev.Mesh()
		sign = physics.Q
	)
	if ct == Electron {
		sign = -physics.Q // conventional current opposes electron flux
	}
	j = make([]float64, msh.NumFacets())
	for f := range j {
		flux, ferr := s.facetParticleFlux(ct, f)
		if ferr != nil {
			err = fmt.Errorf("facet %d: %w", f, ferr)
			j = nil
			return
		}
		j[f] = sign * flux
	}
	return
}

// CellCurrentDensity reconstructs the cell-centered current density vectors
// from the facet normal components via the dual-box least-squares projection.
// Used for terminal-current evaluation and export.
func (s *Simulator) CellCurrentDensity(ct CarrierType) (vectors [][]float64, err error) {
	j, err := s.FacetCurrentDensity(ct)
	if err != nil {
		return
	}
	var (
		msh = s.dev.Mesh()
	)
	vectors = make([][]float64, msh.NumCells())
	setter := func(cell int, v []float64) { vectors[cell] = v }
	access := func(facet int) float64 { return j[facet] }
	if err = dualbox.FluxToCells(msh, nil, setter, access); err != nil {
		vectors = nil
	}
	return
}

// TerminalCurrent sums the conventional current of both carriers flowing
// into a contact segment across its bounding facets [A/m^2 in 1D].
func (s *Simulator) TerminalCurrent(seg mesh.Segment) (current float64, err error) {
	if err = s.terminalState(); err != nil {
		return
	}
	var (
		msh    = s.dev.Mesh()
		inSeg  = make(map[int]bool, len(seg.Cells))
		summed = make(map[int]bool)
	)
	for _, c := range seg.Cells {
		inSeg[c] = true
	}
	for _, c := range seg.Cells {
		facets, ferr := msh.BoundaryElements(c, msh.CellDimension()-1)
		if ferr != nil {
			err = ferr
			return
		}
		for _, f := range facets {
			if summed[f] {
				continue
			}
			cells, cerr := msh.CoboundaryElements(f, msh.CellDimension())
			if cerr != nil {
				err = cerr
				return
			}
			if len(cells) != 2 || (inSeg[cells[0]] && inSeg[cells[1]]) {
				continue // boundary facet or segment-internal facet
			}
			summed[f] = true
			// orientation: flux is primary -> secondary; flip when the
			// segment holds the primary cell so inflow counts positive
			orient := 1.0
			if inSeg[cells[0]] {
				orient = -1.0
			}
			for _, ct := range []CarrierType{Electron, Hole} {
				if s.equationOf(ct) == None {
					continue
				}
				flux, jerr := s.facetParticleFlux(ct, f)
				if jerr != nil {
					err = jerr
					return
				}
				sign := physics.Q
				if ct == Electron {
					sign = -physics.Q
				}
				current += orient * sign * flux
			}
		}
	}
	return
}
