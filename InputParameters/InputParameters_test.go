package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	data := []byte(`
Title: "nin diode"
DeviceLength: 1200
CellCount: 48
ScaleFactor: 1.e-9
DopingN: 1.e20
DopingP: 1.e8
CenterDopingN: 1.e17
CenterDopingP: 1.e11
ContactBias: 0.2
ElectronEquation: she
HoleEquation: continuity
MaxIterations: 50
Damping: 0.5
Tolerance: 1.e-8
LinearSolver: dense
SHE:
  ExpansionOrder: 1
  EnergySpacingEV: 0.031
  MaxEnergyEV: 1.0
  Scattering:
    Acoustic: true
    Optical: true
    Impurity: false
`)
	ip := &InputParameters{}
	assert.NoError(t, ip.Parse(data))
	assert.Equal(t, "nin diode", ip.Title)
	assert.Equal(t, 48, ip.CellCount)
	assert.Equal(t, 1.e-9, ip.ScaleFactor)
	assert.Equal(t, 1.e20, ip.DopingN)
	assert.Equal(t, "she", ip.ElectronEquation)
	assert.Equal(t, 0.5, ip.Damping)
	assert.Equal(t, 1, ip.SHE.ExpansionOrder)
	assert.Equal(t, 0.031, ip.SHE.EnergySpacingEV)
	assert.True(t, ip.SHE.Scattering.Acoustic)
	assert.False(t, ip.SHE.Scattering.Impurity)
}

func TestParseRejectsGarbage(t *testing.T) {
	ip := &InputParameters{}
	assert.Error(t, ip.Parse([]byte("Title: [unclosed")))
}
