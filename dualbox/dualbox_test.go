package dualbox

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goshesim/goshe/mesh"
	"github.com/goshesim/goshe/utils"
)

// fieldOf returns a facet accessor sampling a uniform 1D field v, with each
// sample stored relative to the facet's primary cell.
func fieldOf(t *testing.T, msh *mesh.Mesh, v float64) FacetAccessor {
	samples := make([]float64, msh.NumFacets())
	for f := 0; f < msh.NumFacets(); f++ {
		cells, err := msh.CoboundaryElements(f, 1)
		assert.NoError(t, err)
		n, err := OuterCellNormalAtFacet(msh, cells[0], f)
		assert.NoError(t, err)
		samples[f] = n[0] * v
	}
	return func(f int) float64 { return samples[f] }
}

func TestSingleCellExactReconstruction(t *testing.T) {
	// one interval cell, two facets carrying equal-magnitude opposite-sign
	// samples of a uniform field: reconstruction is exact, no residual
	msh := mesh.NewLineMesh(0, 1, 1)
	access := fieldOf(t, msh, 2.0)
	assert.True(t, near(access(0), -2.0))
	assert.True(t, near(access(1), 2.0))

	var got []float64
	setter := func(cell int, v []float64) { got = v }
	assert.NoError(t, FluxToCell(msh, 0, setter, access))
	assert.Len(t, got, 1)
	assert.True(t, near(got[0], 2.0))
}

func TestPerturbationIsBounded(t *testing.T) {
	// perturbing one sample by eps moves the least-squares fit by eps/2
	// (two facets, one unknown): continuous and bounded
	msh := mesh.NewLineMesh(0, 1, 1)
	base := fieldOf(t, msh, 1.0)
	for _, eps := range []float64{1e-6, 1e-3, 1e-1} {
		access := func(f int) float64 {
			if f == 1 {
				return base(f) + eps
			}
			return base(f)
		}
		var got []float64
		assert.NoError(t, FluxToCell(msh, 0, func(_ int, v []float64) { got = v }, access))
		assert.True(t, near(got[0], 1.0+eps/2))
	}
}

func TestFacetOrientationRoundTrip(t *testing.T) {
	// swapping a facet's primary cell while negating its stored sample must
	// leave every reconstructed cell vector unchanged
	build := func(swapped bool) (*mesh.Mesh, FacetAccessor) {
		var (
			vertices = [][]float64{{0}, {1}, {2}}
			cVerts   = [][]int{{0, 1}, {1, 2}}
			cFacets  = [][]int{{0, 1}, {1, 2}}
			fVerts   = [][]int{{0}, {1}, {2}}
			fCells   = [][]int{{0}, {0, 1}, {1}}
		)
		if swapped {
			fCells[1] = []int{1, 0}
		}
		msh, err := mesh.New(1, 1, vertices, cVerts, cFacets, fVerts, fCells)
		assert.NoError(t, err)
		return msh, fieldOf(t, msh, 3.0)
	}

	for _, swapped := range []bool{false, true} {
		msh, access := build(swapped)
		for cell := 0; cell < 2; cell++ {
			var got []float64
			assert.NoError(t, FluxToCell(msh, cell, func(_ int, v []float64) { got = v }, access))
			assert.True(t, near(got[0], 3.0), "cell %d, swapped=%v", cell, swapped)
		}
	}
}

func TestReconstructionWithReversedFacetRegistration(t *testing.T) {
	// a cell listing its boundary facets in reverse order must reconstruct the
	// same vector as the canonical registration
	var (
		vertices = [][]float64{{0}, {1}}
		cVerts   = [][]int{{0, 1}}
		cFacets  = [][]int{{1, 0}}
		fVerts   = [][]int{{0}, {1}}
		fCells   = [][]int{{0}, {0}}
	)
	msh, err := mesh.New(1, 1, vertices, cVerts, cFacets, fVerts, fCells)
	assert.NoError(t, err)
	access := fieldOf(t, msh, 2.0)

	var got []float64
	assert.NoError(t, FluxToCell(msh, 0, func(_ int, v []float64) { got = v }, access))
	assert.True(t, near(got[0], 2.0))
}

func TestPrimaryCellPredicate(t *testing.T) {
	msh := mesh.NewLineMesh(0, 2, 2)
	primary, err := IsPrimaryCellForFacet(msh, 0, 1)
	assert.NoError(t, err)
	assert.True(t, primary)
	primary, err = IsPrimaryCellForFacet(msh, 1, 1)
	assert.NoError(t, err)
	assert.False(t, primary)
}

func TestUnsupportedDimensionalityFailsLoudly(t *testing.T) {
	// a minimal triangle mesh: one 2D cell, three edge facets
	var (
		vertices = [][]float64{{0, 0}, {1, 0}, {0, 1}}
		cVerts   = [][]int{{0, 1, 2}}
		cFacets  = [][]int{{0, 1, 2}}
		fVerts   = [][]int{{0, 1}, {1, 2}, {2, 0}}
		fCells   = [][]int{{0}, {0}, {0}}
	)
	msh, err := mesh.New(2, 2, vertices, cVerts, cFacets, fVerts, fCells)
	assert.NoError(t, err)

	_, err = OuterCellNormalAtFacet(msh, 0, 0)
	var unsup *UnsupportedDimensionalityError
	assert.ErrorAs(t, err, &unsup)
	assert.Equal(t, 2, unsup.CellDim)

	// the batch form must not silently no-op or write zeros
	called := false
	err = FluxToCells(msh, nil, func(int, []float64) { called = true }, func(int) float64 { return 0 })
	assert.ErrorAs(t, err, &unsup)
	assert.False(t, called)
}

func TestBatchOverMeshAndSegment(t *testing.T) {
	msh := mesh.NewLineMesh(0, 4, 4)
	access := fieldOf(t, msh, -1.5)

	got := make([][]float64, msh.NumCells())
	setter := func(cell int, v []float64) { got[cell] = v }
	assert.NoError(t, FluxToCells(msh, nil, setter, access))
	for c := range got {
		assert.True(t, near(got[c][0], -1.5))
	}

	// segment-scoped batch touches only the segment's cells
	got = make([][]float64, msh.NumCells())
	assert.NoError(t, FluxToCells(msh, []int{1, 2}, setter, access))
	assert.Nil(t, got[0])
	assert.True(t, near(got[1][0], -1.5))
	assert.True(t, near(got[2][0], -1.5))
	assert.Nil(t, got[3])
}

func TestSingularAttribution(t *testing.T) {
	// a degenerate cell with no facets leaves M all-zero; the error names the
	// cell and carries the singularity type
	var (
		vertices = [][]float64{{0}, {1}}
		cVerts   = [][]int{{0, 1}}
		cFacets  = [][]int{{}}
		fVerts   = [][]int{{0}, {1}}
		fCells   = [][]int{{}, {}}
	)
	msh, err := mesh.New(1, 1, vertices, cVerts, cFacets, fVerts, fCells)
	assert.NoError(t, err)

	err = FluxToCell(msh, 0, func(int, []float64) {}, func(int) float64 { return 0 })
	assert.Error(t, err)
	var sing *utils.SingularMatrixError
	assert.ErrorAs(t, err, &sing)
	assert.Contains(t, err.Error(), "cell 0")
}

func near(a, b float64) (l bool) {
	bound := 1.e-08 * math.Abs(a)
	if bound < 1.e-12 {
		bound = 1.e-12
	}
	if math.Abs(a-b) < bound {
		l = true
	}
	return
}
