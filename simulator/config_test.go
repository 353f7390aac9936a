package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goshesim/goshe/she"
)

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	var ice *InvalidConfigurationError

	cfg := DefaultConfig()
	cfg.Nonlinear.Damping = 0
	assert.ErrorAs(t, cfg.Validate(), &ice)

	cfg = DefaultConfig()
	cfg.Nonlinear.Damping = 1.5
	assert.ErrorAs(t, cfg.Validate(), &ice)

	cfg = DefaultConfig()
	cfg.Nonlinear.MaxIters = -1
	assert.ErrorAs(t, cfg.Validate(), &ice)

	cfg = DefaultConfig()
	cfg.Nonlinear.Tolerance = 0
	assert.ErrorAs(t, cfg.Validate(), &ice)

	// SHE requested with expansion order 0 is invalid...
	cfg = DefaultConfig()
	cfg.ElectronEquation = SHE
	cfg.SHE.MaxExpansionOrder = 0
	assert.ErrorAs(t, cfg.Validate(), &ice)

	// ...but the same SHE block is ignored when no carrier uses SHE
	cfg.ElectronEquation = Continuity
	assert.NoError(t, cfg.Validate())
}

func TestEquationKindLabels(t *testing.T) {
	k, err := NewEquationKind("SHE")
	assert.NoError(t, err)
	assert.Equal(t, SHE, k)
	k, err = NewEquationKind("")
	assert.NoError(t, err)
	assert.Equal(t, None, k)
	k, err = NewEquationKind("dd")
	assert.NoError(t, err)
	assert.Equal(t, Continuity, k)
	_, err = NewEquationKind("hydrodynamic")
	assert.Error(t, err)
}

func TestConfigSnapshotIsolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ElectronEquation = None
	cfg.HoleEquation = None
	cfg.Nonlinear.MaxIters = 7
	cfg.LinearSolver.Args = []string{"-ksp_type", "cg"}

	sim, err := New(intrinsicDevice(4, 0, 0), cfg)
	assert.NoError(t, err)

	// mutating the caller's config after construction has no effect
	cfg.Nonlinear.MaxIters = 999
	cfg.LinearSolver.Args[0] = "-mangled"
	got := sim.Config()
	assert.Equal(t, 7, got.Nonlinear.MaxIters)
	assert.Equal(t, "-ksp_type", got.LinearSolver.Args[0])

	// and mutating an accessor copy does not reach the simulator
	got.Nonlinear.MaxIters = 123
	assert.Equal(t, 7, sim.Config().Nonlinear.MaxIters)
}

func TestInitialGuessHandOff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Nonlinear.MaxIters = 200
	cfg.Nonlinear.Damping = 0.5
	cfg.Nonlinear.Tolerance = 1.e-8

	dd, err := New(ninDiode(12, 0.1), cfg)
	assert.NoError(t, err)
	assert.NoError(t, dd.Run())

	sheCfg := cfg
	sheCfg.ElectronEquation = SHE
	sheCfg.SHE = she.DefaultParams()
	sheSim, err := New(ninDiode(12, 0.1), sheCfg)
	assert.NoError(t, err)

	potBefore := dd.Potential()
	assert.NoError(t, sheSim.SetInitialGuess(PotentialQuantity, dd.Potential()))
	assert.NoError(t, sheSim.SetInitialGuess(ElectronDensityQuantity, dd.ElectronDensity()))
	assert.NoError(t, sheSim.SetInitialGuess(HoleDensityQuantity, dd.HoleDensity()))

	// the donor simulator's fields are untouched by the hand-off
	assert.Equal(t, potBefore, dd.Potential())

	// wrong length and unknown names are rejected
	assert.Error(t, sheSim.SetInitialGuess(PotentialQuantity, []float64{1, 2}))
	assert.Error(t, sheSim.SetInitialGuess(Quantity("temperature"), dd.Potential()))

	assert.NoError(t, sheSim.Run())
	assert.Equal(t, Converged, sheSim.State())

	// guesses are frozen once the run started
	assert.Error(t, sheSim.SetInitialGuess(PotentialQuantity, dd.Potential()))
}

func TestSHEDistributionMatchesDensity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ElectronEquation = SHE
	cfg.HoleEquation = Continuity
	cfg.Nonlinear.MaxIters = 200
	cfg.Nonlinear.Damping = 0.5
	cfg.Nonlinear.Tolerance = 1.e-8

	sim, err := New(ninDiode(12, 0.1), cfg)
	assert.NoError(t, err)
	assert.NoError(t, sim.Run())
	assert.Equal(t, Converged, sim.State())

	edf := sim.ElectronEDF()
	assert.NotNil(t, edf)
	assert.Nil(t, sim.HoleEDF())

	// zeroth moment of the distribution reproduces the solved density
	n := sim.ElectronDensity()
	for c := range n {
		assert.InDelta(t, 1.0, edf.Density(c)/n[c], 1.e-10)
	}

	// the returned distribution is a copy
	edf.Set(0, 0, 0, -1)
	assert.True(t, sim.ElectronEDF().At(0, 0, 0) >= 0)
}

func TestQuantityAccessor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ElectronEquation = None
	cfg.HoleEquation = None
	cfg.Nonlinear.MaxIters = 1
	sim, err := New(intrinsicDevice(4, 0, 0), cfg)
	assert.NoError(t, err)

	v, err := sim.Quantity(PotentialQuantity)
	assert.NoError(t, err)
	assert.Len(t, v, 4)
	_, err = sim.Quantity(Quantity("entropy"))
	assert.Error(t, err)
}
