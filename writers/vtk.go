// Package writers exports solved quantities and reconstructed vector fields
// for inspection, in legacy VTK and CSV form.
package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goshesim/goshe/mesh"
)

// WriteVTK writes the mesh with cell-attached scalar and vector quantities
// as a legacy VTK unstructured grid. Only 1D line meshes are supported.
func WriteVTK(w io.Writer, msh *mesh.Mesh, scalars map[string][]float64, vectors map[string][][]float64) (err error) {
	if msh.CellDimension() != 1 {
		return fmt.Errorf("VTK export unimplemented for cell dimension %d", msh.CellDimension())
	}
	var (
		bw = bufio.NewWriter(w)
		nv = msh.NumVertices()
		nc = msh.NumCells()
	)
	fmt.Fprintln(bw, "# vtk DataFile Version 3.0")
	fmt.Fprintln(bw, "goshe solution")
	fmt.Fprintln(bw, "ASCII")
	fmt.Fprintln(bw, "DATASET UNSTRUCTURED_GRID")

	fmt.Fprintf(bw, "POINTS %d double\n", nv)
	for v := 0; v < nv; v++ {
		c := msh.VertexCoords(v)
		fmt.Fprintf(bw, "%.12e 0 0\n", c[0])
	}

	fmt.Fprintf(bw, "CELLS %d %d\n", nc, 3*nc)
	for c := 0; c < nc; c++ {
		verts, verr := msh.BoundaryElements(c, 0)
		if verr != nil {
			return verr
		}
		fmt.Fprintf(bw, "2 %d %d\n", verts[0], verts[1])
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", nc)
	for c := 0; c < nc; c++ {
		fmt.Fprintln(bw, "3") // VTK_LINE
	}

	fmt.Fprintf(bw, "CELL_DATA %d\n", nc)
	for _, name := range sortedKeys(scalars) {
		values := scalars[name]
		if len(values) != nc {
			return fmt.Errorf("scalar %q has %d values, mesh has %d cells", name, len(values), nc)
		}
		fmt.Fprintf(bw, "SCALARS %s double 1\n", name)
		fmt.Fprintln(bw, "LOOKUP_TABLE default")
		for _, val := range values {
			fmt.Fprintf(bw, "%.12e\n", val)
		}
	}
	for _, name := range sortedVectorKeys(vectors) {
		values := vectors[name]
		if len(values) != nc {
			return fmt.Errorf("vector %q has %d values, mesh has %d cells", name, len(values), nc)
		}
		fmt.Fprintf(bw, "VECTORS %s double\n", name)
		for _, v := range values {
			x := [3]float64{}
			copy(x[:], v)
			fmt.Fprintf(bw, "%.12e %.12e %.12e\n", x[0], x[1], x[2])
		}
	}
	err = bw.Flush()
	return
}

// WriteVTKFile is the file-path convenience form of WriteVTK.
func WriteVTKFile(filename string, msh *mesh.Mesh, scalars map[string][]float64, vectors map[string][][]float64) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return
	}
	defer f.Close()
	return WriteVTK(f, msh, scalars, vectors)
}

// WriteCSV writes cell centroid coordinates plus the named scalar quantities
// as comma-separated rows, one row per cell.
func WriteCSV(w io.Writer, msh *mesh.Mesh, scalars map[string][]float64) (err error) {
	var (
		bw    = bufio.NewWriter(w)
		names = sortedKeys(scalars)
		nc    = msh.NumCells()
	)
	fmt.Fprint(bw, "x")
	for _, name := range names {
		fmt.Fprintf(bw, ",%s", name)
	}
	fmt.Fprintln(bw)
	for c := 0; c < nc; c++ {
		centroid, cerr := msh.Centroid(msh.CellDimension(), c)
		if cerr != nil {
			return cerr
		}
		fmt.Fprintf(bw, "%.12e", centroid[0])
		for _, name := range names {
			if len(scalars[name]) != nc {
				return fmt.Errorf("scalar %q has %d values, mesh has %d cells",
					name, len(scalars[name]), nc)
			}
			fmt.Fprintf(bw, ",%.12e", scalars[name][c])
		}
		fmt.Fprintln(bw)
	}
	err = bw.Flush()
	return
}

func sortedKeys(m map[string][]float64) (keys []string) {
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

func sortedVectorKeys(m map[string][][]float64) (keys []string) {
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}
