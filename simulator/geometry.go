package simulator

import (
	"fmt"
	"math"

	"github.com/goshesim/goshe/mesh"
)

// cellVolume returns the control-volume measure of a 1D cell: the distance
// between its two end vertices.
func cellVolume(msh *mesh.Mesh, cell int) (vol float64, err error) {
	verts, err := msh.BoundaryElements(cell, 0)
	if err != nil {
		return
	}
	if len(verts) != 2 {
		err = fmt.Errorf("cell %d: expected 2 vertices, got %d", cell, len(verts))
		return
	}
	var (
		a = msh.VertexCoords(verts[0])
		b = msh.VertexCoords(verts[1])
	)
	vol = math.Abs(b[0] - a[0])
	return
}

// centroidDistance returns the distance between two cell centroids, the
// dual-box edge length the facet coupling coefficients divide by.
func centroidDistance(msh *mesh.Mesh, c1, c2 int) (d float64, err error) {
	var p1, p2 []float64
	if p1, err = msh.Centroid(msh.CellDimension(), c1); err != nil {
		return
	}
	if p2, err = msh.Centroid(msh.CellDimension(), c2); err != nil {
		return
	}
	var sum float64
	for i := range p1 {
		diff := p2[i] - p1[i]
		sum += diff * diff
	}
	d = math.Sqrt(sum)
	if d == 0 {
		err = fmt.Errorf("cells %d and %d share a centroid", c1, c2)
	}
	return
}
