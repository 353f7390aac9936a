// Package solvers provides the assembled-sparse-system abstraction consumed
// by the equation assemblers, with selectable linear solver backends.
package solvers

import (
	"fmt"
	"math"
	"strings"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Family selects a linear solver backend.
type Family uint8

const (
	// Dense factorizes the densified system with an LU decomposition.
	// Robust for the small meshes used in 1D device simulation.
	Dense Family = iota
	// CG runs an unpreconditioned conjugate gradient on the CSR form.
	// Requires a symmetric positive definite system.
	CG
)

func (f Family) String() string {
	switch f {
	case Dense:
		return "dense"
	case CG:
		return "cg"
	}
	return "unknown"
}

// NewFamily maps a configuration label to a solver family.
func NewFamily(label string) (f Family, err error) {
	switch strings.ToLower(label) {
	case "", "dense", "lu":
		f = Dense
	case "cg":
		f = CG
	default:
		err = fmt.Errorf("unknown linear solver family %q", label)
	}
	return
}

// Config selects and bounds the backend. Args is an argv-style passthrough
// reserved for external solver libraries; the built-in backends ignore it.
type Config struct {
	Family   Family
	MaxIters int
	Tol      float64
	Args     []string
}

// DefaultConfig returns the dense backend with a generous iteration cap for
// the iterative families.
func DefaultConfig() Config {
	return Config{Family: Dense, MaxIters: 1000, Tol: 1.e-12}
}

// System is a sparse linear system A*x = b under assembly. Entries accumulate
// through Add, matching the stamping style of finite-volume assembly.
type System struct {
	A *sparse.DOK
	B []float64
	N int
}

func NewSystem(n int) *System {
	return &System{
		A: sparse.NewDOK(n, n),
		B: make([]float64, n),
		N: n,
	}
}

// Add accumulates into A[i,j].
func (s *System) Add(i, j int, val float64) {
	s.A.Set(i, j, s.A.At(i, j)+val)
}

// AddRHS accumulates into b[i].
func (s *System) AddRHS(i int, val float64) {
	s.B[i] += val
}

// SetDirichlet overwrites row i with the identity row x_i = val.
func (s *System) SetDirichlet(i int, val float64) {
	for j := 0; j < s.N; j++ {
		if s.A.At(i, j) != 0 {
			s.A.Set(i, j, 0)
		}
	}
	s.A.Set(i, i, 1)
	s.B[i] = val
}

// SolveError reports a failed or non-converged linear solve.
type SolveError struct {
	Family   Family
	Iters    int
	Residual float64
	Reason   string
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("linear solve (%s) failed after %d iterations, residual %.3e: %s",
		e.Family, e.Iters, e.Residual, e.Reason)
}

// Solve runs the configured backend. The call is atomic: on error no partial
// solution is returned.
func Solve(sys *System, cfg Config) (x []float64, err error) {
	switch cfg.Family {
	case Dense:
		return solveDense(sys)
	case CG:
		return solveCG(sys, cfg)
	}
	err = fmt.Errorf("unknown linear solver family %d", cfg.Family)
	return
}

func solveDense(sys *System) (x []float64, err error) {
	var (
		A = mat.NewDense(sys.N, sys.N, nil)
		b = mat.NewVecDense(sys.N, append([]float64(nil), sys.B...))
		v mat.VecDense
	)
	sys.A.DoNonZero(func(i, j int, val float64) {
		A.Set(i, j, val)
	})
	if solveErr := v.SolveVec(A, b); solveErr != nil {
		err = &SolveError{Family: Dense, Reason: "singular or ill-conditioned matrix"}
		return
	}
	x = v.RawVector().Data
	return
}

func solveCG(sys *System, cfg Config) (x []float64, err error) {
	var (
		csr  = sys.A.ToCSR()
		n    = sys.N
		r    = make([]float64, n)
		p    = make([]float64, n)
		ap   = make([]float64, n)
		iter int
	)
	x = make([]float64, n)
	copy(r, sys.B)
	copy(p, r)
	rsold := dot(r, r)
	normB := math.Sqrt(dot(sys.B, sys.B))
	if normB == 0 {
		return
	}
	for iter = 0; iter < cfg.MaxIters; iter++ {
		if math.Sqrt(rsold)/normB <= cfg.Tol {
			return
		}
		matVec(csr, p, ap)
		pap := dot(p, ap)
		if pap <= 0 {
			err = &SolveError{Family: CG, Iters: iter, Residual: math.Sqrt(rsold) / normB,
				Reason: "matrix not positive definite"}
			x = nil
			return
		}
		alpha := rsold / pap
		for i := range x {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}
		rsnew := dot(r, r)
		beta := rsnew / rsold
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsold = rsnew
	}
	if math.Sqrt(rsold)/normB <= cfg.Tol {
		return
	}
	err = &SolveError{Family: CG, Iters: iter, Residual: math.Sqrt(rsold) / normB,
		Reason: "iteration cap reached"}
	x = nil
	return
}

func matVec(csr *sparse.CSR, v, out []float64) {
	for i := range out {
		out[i] = 0
	}
	csr.DoNonZero(func(i, j int, val float64) {
		out[i] += val * v[j]
	})
}

func dot(a, b []float64) (s float64) {
	for i, val := range a {
		s += val * b[i]
	}
	return
}
