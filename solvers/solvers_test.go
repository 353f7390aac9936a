package solvers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// tridiag assembles the SPD 1D Laplacian stiffness matrix with a right-hand
// side whose exact solution is all ones.
func tridiag(n int) *System {
	sys := NewSystem(n)
	for i := 0; i < n; i++ {
		sys.Add(i, i, 2)
		if i > 0 {
			sys.Add(i, i-1, -1)
		}
		if i < n-1 {
			sys.Add(i, i+1, -1)
		}
	}
	sys.B[0] = 1
	sys.B[n-1] = 1
	return sys
}

func TestDenseBackend(t *testing.T) {
	n := 8
	x, err := Solve(tridiag(n), Config{Family: Dense})
	assert.NoError(t, err)
	for i := 0; i < n; i++ {
		assert.InDelta(t, 1.0, x[i], 1.e-10)
	}
}

func TestDenseSingular(t *testing.T) {
	sys := NewSystem(2)
	sys.Add(0, 0, 1)
	sys.Add(0, 1, 1)
	sys.Add(1, 0, 1)
	sys.Add(1, 1, 1)
	sys.B[0] = 1
	_, err := Solve(sys, Config{Family: Dense})
	var se *SolveError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, Dense, se.Family)
}

func TestCGBackend(t *testing.T) {
	n := 16
	x, err := Solve(tridiag(n), Config{Family: CG, MaxIters: 200, Tol: 1.e-12})
	assert.NoError(t, err)
	for i := 0; i < n; i++ {
		assert.InDelta(t, 1.0, x[i], 1.e-8)
	}
}

func TestCGIterationCap(t *testing.T) {
	// one iteration cannot converge a 16-unknown system to 1e-12
	_, err := Solve(tridiag(16), Config{Family: CG, MaxIters: 1, Tol: 1.e-12})
	var se *SolveError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, CG, se.Family)
	assert.Equal(t, "iteration cap reached", se.Reason)
}

func TestDirichletRow(t *testing.T) {
	sys := NewSystem(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sys.Add(i, j, 1)
		}
	}
	sys.SetDirichlet(1, 7)
	assert.Equal(t, 0.0, sys.A.At(1, 0))
	assert.Equal(t, 1.0, sys.A.At(1, 1))
	assert.Equal(t, 0.0, sys.A.At(1, 2))
	assert.Equal(t, 7.0, sys.B[1])
}

func TestFamilyLabels(t *testing.T) {
	f, err := NewFamily("CG")
	assert.NoError(t, err)
	assert.Equal(t, CG, f)
	f, err = NewFamily("")
	assert.NoError(t, err)
	assert.Equal(t, Dense, f)
	_, err = NewFamily("petsc")
	assert.Error(t, err)
}
