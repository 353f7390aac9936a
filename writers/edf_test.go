package writers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goshesim/goshe/mesh"
	"github.com/goshesim/goshe/physics"
	"github.com/goshesim/goshe/she"
)

func TestWriteEDF(t *testing.T) {
	msh := mesh.NewLineMesh(0, 2, 2)
	g, err := she.NewEnergyGrid(0.5*physics.Q, 1.0*physics.Q)
	assert.NoError(t, err)
	d := she.NewDistribution(2, g, 1)
	d.SetEquilibrium(0, 1e20, physics.T300)
	d.SetEquilibrium(1, 2e20, physics.T300)

	var buf bytes.Buffer
	assert.NoError(t, WriteEDF(&buf, msh, d))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "x,f(0.2500eV),f(0.7500eV)", lines[0])
	assert.Contains(t, lines[1], "5.000000000000e-01")
}

func TestWriteEDFRejectsMismatchedMesh(t *testing.T) {
	msh := mesh.NewLineMesh(0, 1, 3)
	g, _ := she.NewEnergyGrid(0.5*physics.Q, 1.0*physics.Q)
	d := she.NewDistribution(2, g, 1)
	var buf bytes.Buffer
	assert.Error(t, WriteEDF(&buf, msh, d))
}
