package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/goshesim/goshe/mesh"
	"github.com/goshesim/goshe/physics"
	"github.com/goshesim/goshe/she"
)

// WriteEDF writes the zeroth-harmonic coefficients of an energy distribution
// function as CSV: one row per cell, one column per energy level. The header
// carries the level midpoint energies in eV.
func WriteEDF(w io.Writer, msh *mesh.Mesh, d *she.Distribution) (err error) {
	if d.NumCells != msh.NumCells() {
		return fmt.Errorf("distribution has %d cells, mesh has %d", d.NumCells, msh.NumCells())
	}
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "x")
	for _, e := range d.Grid.Levels {
		fmt.Fprintf(bw, ",f(%.4feV)", e/physics.Q)
	}
	fmt.Fprintln(bw)
	for c := 0; c < d.NumCells; c++ {
		centroid, cerr := msh.Centroid(msh.CellDimension(), c)
		if cerr != nil {
			return cerr
		}
		fmt.Fprintf(bw, "%.12e", centroid[0])
		for l := 0; l < d.NumLevels; l++ {
			fmt.Fprintf(bw, ",%.12e", d.At(c, l, 0))
		}
		fmt.Fprintln(bw)
	}
	err = bw.Flush()
	return
}

// WriteEDFFile is the file-path convenience form of WriteEDF.
func WriteEDFFile(filename string, msh *mesh.Mesh, d *she.Distribution) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return
	}
	defer f.Close()
	return WriteEDF(f, msh, d)
}
