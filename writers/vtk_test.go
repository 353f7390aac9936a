package writers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goshesim/goshe/mesh"
)

func TestWriteVTK(t *testing.T) {
	msh := mesh.NewLineMesh(0, 2, 2)
	var buf bytes.Buffer
	err := WriteVTK(&buf, msh,
		map[string][]float64{"potential": {0.1, 0.2}},
		map[string][][]float64{"current": {{1}, {2}}})
	assert.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# vtk DataFile Version 3.0"))
	assert.Contains(t, out, "POINTS 3 double")
	assert.Contains(t, out, "CELLS 2 6")
	assert.Contains(t, out, "SCALARS potential double 1")
	assert.Contains(t, out, "VECTORS current double")
	// 1D vectors are padded to three components
	assert.Contains(t, out, "1.000000000000e+00 0.000000000000e+00 0.000000000000e+00")
}

func TestWriteVTKRejectsMismatchedData(t *testing.T) {
	msh := mesh.NewLineMesh(0, 1, 3)
	var buf bytes.Buffer
	err := WriteVTK(&buf, msh, map[string][]float64{"n": {1, 2}}, nil)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	msh := mesh.NewLineMesh(0, 2, 2)
	var buf bytes.Buffer
	err := WriteCSV(&buf, msh, map[string][]float64{
		"electron_density": {1e20, 2e20},
		"potential":        {0.1, 0.2},
	})
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	// columns are sorted by name for reproducible output
	assert.Equal(t, "x,electron_density,potential", lines[0])
	assert.Contains(t, lines[1], "5.000000000000e-01")
}
