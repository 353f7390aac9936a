// Package mesh provides the topology and geometry queries needed by the
// dual-box discretization: element centroids, boundary and coboundary
// enumeration by target dimension, and named segments. Element identifiers
// are plain indices scoped by element dimension; the mesh is read-only after
// construction.
package mesh

import "fmt"

// Element dimensions used throughout: vertices are dimension 0, facets are
// CellDimension()-1, cells are CellDimension().

// Mesh is an immutable simplex mesh. Coordinate units are meters; callers
// scale coordinates (Scale) before handing the mesh to a simulator.
type Mesh struct {
	geoDim  int
	cellDim int

	vertices [][]float64 // [vertex][geoDim]

	cellFacets [][]int // cell -> facet ids, dimension cellDim-1
	cellVerts  [][]int // cell -> vertex ids
	facetVerts [][]int // facet -> vertex ids
	facetCells [][]int // facet -> coboundary cells, in registration order

	segments []Segment
	frozen   bool
}

// Segment is a named sub-region of the mesh: a material region or a contact.
type Segment struct {
	Name  string
	Cells []int
}

// New assembles a mesh from raw connectivity. facetCells fixes the
// registration order of each facet's coboundary cells; the first entry is the
// facet's primary cell for the global flux sign convention.
//
// In 1D, facets coincide with vertices: each facet must hold exactly the
// vertex with its own id, so facet and vertex queries at dimension 0 agree.
// Meshes violating this are rejected.
func New(geoDim, cellDim int, vertices [][]float64, cellVerts, cellFacets, facetVerts, facetCells [][]int) (msh *Mesh, err error) {
	if geoDim < 1 || geoDim > 3 {
		err = fmt.Errorf("unsupported geometric dimension %d", geoDim)
		return
	}
	if cellDim < 1 || cellDim > geoDim {
		err = fmt.Errorf("cell dimension %d incompatible with geometric dimension %d", cellDim, geoDim)
		return
	}
	for i, v := range vertices {
		if len(v) != geoDim {
			err = fmt.Errorf("vertex %d has %d coordinates, expected %d", i, len(v), geoDim)
			return
		}
	}
	if len(cellVerts) != len(cellFacets) {
		err = fmt.Errorf("cell connectivity mismatch: %d vertex lists, %d facet lists",
			len(cellVerts), len(cellFacets))
		return
	}
	if len(facetVerts) != len(facetCells) {
		err = fmt.Errorf("facet connectivity mismatch: %d vertex lists, %d cell lists",
			len(facetVerts), len(facetCells))
		return
	}
	if cellDim == 1 {
		for f, fv := range facetVerts {
			if len(fv) != 1 || fv[0] != f {
				err = fmt.Errorf("1D facet %d must coincide with vertex %d, got vertices %v", f, f, fv)
				return
			}
		}
	}
	msh = &Mesh{
		geoDim:     geoDim,
		cellDim:    cellDim,
		vertices:   vertices,
		cellVerts:  cellVerts,
		cellFacets: cellFacets,
		facetVerts: facetVerts,
		facetCells: facetCells,
	}
	return
}

// NewLineMesh builds a uniform 1D mesh of K interval cells spanning
// [xmin, xmax]. Facets coincide with vertices; each interior facet's
// coboundary lists the lower cell first.
func NewLineMesh(xmin, xmax float64, K int) (msh *Mesh) {
	var (
		vx = make([]float64, K+1)
	)
	for i := 0; i <= K; i++ {
		vx[i] = xmin + (xmax-xmin)*float64(i)/float64(K)
	}
	return NewLineMeshFromVertices(vx)
}

// NewLineMeshFromVertices builds a 1D mesh from ascending vertex coordinates.
func NewLineMeshFromVertices(vx []float64) (msh *Mesh) {
	var (
		K        = len(vx) - 1
		vertices = make([][]float64, K+1)
		cVerts   = make([][]int, K)
		cFacets  = make([][]int, K)
		fVerts   = make([][]int, K+1)
		fCells   = make([][]int, K+1)
	)
	for i := range vertices {
		vertices[i] = []float64{vx[i]}
		fVerts[i] = []int{i}
	}
	for k := 0; k < K; k++ {
		cVerts[k] = []int{k, k + 1}
		cFacets[k] = []int{k, k + 1}
		fCells[k] = append(fCells[k], k)
		fCells[k+1] = append(fCells[k+1], k)
	}
	msh, _ = New(1, 1, vertices, cVerts, cFacets, fVerts, fCells)
	return
}

func (msh *Mesh) GeometricDimension() int { return msh.geoDim }
func (msh *Mesh) CellDimension() int      { return msh.cellDim }
func (msh *Mesh) NumCells() int           { return len(msh.cellFacets) }
func (msh *Mesh) NumFacets() int          { return len(msh.facetCells) }
func (msh *Mesh) NumVertices() int        { return len(msh.vertices) }

// Scale multiplies all vertex coordinates by factor, e.g. 1e-9 for a mesh
// authored in nanometers. Must be called before the mesh is frozen by a
// simulator.
func (msh *Mesh) Scale(factor float64) error {
	if msh.frozen {
		return fmt.Errorf("mesh is frozen, cannot scale")
	}
	for _, v := range msh.vertices {
		for d := range v {
			v[d] *= factor
		}
	}
	return nil
}

// Freeze marks the mesh read-only. Subsequent Scale calls fail.
func (msh *Mesh) Freeze() { msh.frozen = true }

// VertexCoords returns the coordinates of one vertex.
func (msh *Mesh) VertexCoords(vertex int) []float64 { return msh.vertices[vertex] }

// Centroid returns the centroid of the element of the given dimension. In 1D
// the facet tables take precedence at dimension 0; the construction invariant
// makes them agree with the vertex view.
func (msh *Mesh) Centroid(dim, id int) (c []float64, err error) {
	var verts []int
	switch dim {
	case msh.cellDim:
		verts = msh.cellVerts[id]
	case msh.cellDim - 1:
		verts = msh.facetVerts[id]
	case 0:
		verts = []int{id}
	default:
		err = fmt.Errorf("no elements of dimension %d in a %dD mesh", dim, msh.cellDim)
		return
	}
	c = make([]float64, msh.geoDim)
	for _, v := range verts {
		for d := 0; d < msh.geoDim; d++ {
			c[d] += msh.vertices[v][d]
		}
	}
	for d := range c {
		c[d] /= float64(len(verts))
	}
	return
}

// BoundaryElements enumerates the boundary elements of a cell with the given
// target dimension. Facet queries consult the registered facet lists; in 1D
// these take precedence at dimension 0, where the construction invariant keeps
// facet and vertex ids interchangeable.
func (msh *Mesh) BoundaryElements(cell, targetDim int) (elems []int, err error) {
	if cell < 0 || cell >= msh.NumCells() {
		err = fmt.Errorf("cell %d out of range [0,%d)", cell, msh.NumCells())
		return
	}
	switch targetDim {
	case msh.cellDim - 1:
		elems = msh.cellFacets[cell]
	case 0:
		elems = msh.cellVerts[cell]
	default:
		err = fmt.Errorf("boundary of cell %d: unsupported target dimension %d", cell, targetDim)
	}
	return
}

// CoboundaryElements enumerates the coboundary elements of a facet with the
// given target dimension, in registration order. The first cell returned is
// the facet's primary cell.
func (msh *Mesh) CoboundaryElements(facet, targetDim int) (elems []int, err error) {
	if facet < 0 || facet >= msh.NumFacets() {
		err = fmt.Errorf("facet %d out of range [0,%d)", facet, msh.NumFacets())
		return
	}
	if targetDim != msh.cellDim {
		err = fmt.Errorf("coboundary of facet %d: unsupported target dimension %d", facet, targetDim)
		return
	}
	elems = msh.facetCells[facet]
	return
}

// AddSegment registers a named set of cells.
func (msh *Mesh) AddSegment(name string, cells []int) {
	msh.segments = append(msh.segments, Segment{Name: name, Cells: cells})
}

// Segment returns the named segment.
func (msh *Mesh) Segment(name string) (seg Segment, err error) {
	for _, s := range msh.segments {
		if s.Name == name {
			seg = s
			return
		}
	}
	err = fmt.Errorf("no segment named %q", name)
	return
}

// Segments returns all registered segments.
func (msh *Mesh) Segments() []Segment { return msh.segments }
