// Package dualbox projects facet-normal flux samples of the dual-box
// (finite-volume) discretization onto cell-centered vectors. Each cell gets a
// least-squares fit of its own boundary facets' normal flux components,
// solved through a small symmetric normal-equations system.
package dualbox

import (
	"fmt"

	"github.com/goshesim/goshe/mesh"
	"github.com/goshesim/goshe/utils"
)

// UnsupportedDimensionalityError reports a topology/dimension combination the
// reconstruction has no normal formula for. The 2D and 3D outer-normal paths
// are deliberately absent until verified; they never degrade to zero vectors.
type UnsupportedDimensionalityError struct {
	CellDim int
}

func (e *UnsupportedDimensionalityError) Error() string {
	return fmt.Sprintf("outer cell normal unimplemented for cell dimension %d", e.CellDim)
}

// FacetAccessor returns the scalar flux sample through a facet, signed
// relative to the facet's own orientation.
type FacetAccessor func(facet int) float64

// CellSetter stores a reconstructed geo_dim vector, keyed by cell.
type CellSetter func(cell int, v []float64)

// OuterCellNormalAtFacet returns the unit normal of facet pointing away from
// cell. In 1D the normal reduces to a sign from comparing the cell and facet
// centroids.
func OuterCellNormalAtFacet(msh *mesh.Mesh, cell, facet int) (normal []float64, err error) {
	if msh.CellDimension() != 1 {
		err = &UnsupportedDimensionalityError{CellDim: msh.CellDimension()}
		return
	}
	var cc, fc []float64
	if cc, err = msh.Centroid(msh.CellDimension(), cell); err != nil {
		return
	}
	if fc, err = msh.Centroid(msh.CellDimension()-1, facet); err != nil {
		return
	}
	normal = make([]float64, msh.GeometricDimension())
	if cc[0] < fc[0] {
		normal[0] = 1.0
	} else {
		normal[0] = -1.0
	}
	return
}

// IsPrimaryCellForFacet reports whether cell is the first registered
// coboundary cell of facet. Flux samples are stored relative to the primary
// cell; the secondary cell sees them negated.
func IsPrimaryCellForFacet(msh *mesh.Mesh, cell, facet int) (primary bool, err error) {
	cells, err := msh.CoboundaryElements(facet, msh.CellDimension())
	if err != nil {
		return
	}
	if len(cells) == 0 {
		err = fmt.Errorf("facet %d has no coboundary cells", facet)
		return
	}
	primary = cells[0] == cell
	return
}

// FluxToCell reconstructs the cell-centered vector that best reproduces the
// normal flux samples on the cell's own boundary facets, minimizing
// sum_f (n_f . v - flux_f)^2, and delivers it through setter. A singular
// normal-equations matrix (e.g. collinear facet normals) is reported, never
// replaced by a default.
func FluxToCell(msh *mesh.Mesh, cell int, setter CellSetter, access FacetAccessor) (err error) {
	var (
		geoDim  = msh.GeometricDimension()
		cellDim = msh.CellDimension()
	)
	facets, err := msh.BoundaryElements(cell, cellDim-1)
	if err != nil {
		return fmt.Errorf("cell %d: %w", cell, err)
	}

	var (
		M = utils.NewMatrix(geoDim, geoDim)
		b = utils.NewVector(geoDim)
	)
	for _, f := range facets {
		normal, nerr := OuterCellNormalAtFacet(msh, cell, f)
		if nerr != nil {
			return fmt.Errorf("cell %d, facet %d: %w", cell, f, nerr)
		}
		flux := access(f)
		primary, perr := IsPrimaryCellForFacet(msh, cell, f)
		if perr != nil {
			return fmt.Errorf("cell %d, facet %d: %w", cell, f, perr)
		}
		if !primary {
			flux = -flux
		}
		for i := 0; i < geoDim; i++ {
			for j := 0; j < geoDim; j++ {
				M.AddAt(i, j, normal[i]*normal[j])
			}
			b.AddAt(i, normal[i]*flux)
		}
	}

	v, err := utils.SolveSymmetric(M, b)
	if err != nil {
		return fmt.Errorf("cell %d: flux reconstruction: %w", cell, err)
	}
	setter(cell, v.DataP())
	return
}

// FluxToCells runs the reconstruction over the given cells, or over the whole
// mesh when cells is nil. On unsupported dimensionality it fails before
// touching any cell rather than silently writing zeros.
func FluxToCells(msh *mesh.Mesh, cells []int, setter CellSetter, access FacetAccessor) (err error) {
	if msh.CellDimension() != 1 {
		return &UnsupportedDimensionalityError{CellDim: msh.CellDimension()}
	}
	if cells == nil {
		cells = make([]int, msh.NumCells())
		for i := range cells {
			cells[i] = i
		}
	}
	for _, c := range cells {
		if err = FluxToCell(msh, c, setter, access); err != nil {
			return
		}
	}
	return
}
