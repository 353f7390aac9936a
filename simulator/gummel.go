package simulator

import (
	"fmt"
	"math"

	"github.com/goshesim/goshe/solvers"
	"github.com/goshesim/goshe/utils"
)

// NotConvergedError reports that the Gummel iteration hit its cap before the
// residual dropped below tolerance. It is a reportable terminal state, not a
// hard failure: the fields hold the last iterate.
type NotConvergedError struct {
	Iterations int
	Residual   float64
	Tolerance  float64
}

func (e *NotConvergedError) Error() string {
	return fmt.Sprintf("nonlinear iteration not converged after %d iterations: residual %.3e > tolerance %.3e",
		e.Iterations, e.Residual, e.Tolerance)
}

// Run drives the damped Gummel loop: Poisson solve, then each enabled
// carrier's transport solve against the updated potential, then the residual
// check, until convergence or the iteration cap. Iterations are strictly
// sequential; a linear solver failure in any sub-equation aborts the run.
func (s *Simulator) Run() (err error) {
	if s.state != Configured {
		return fmt.Errorf("run requires a configured simulator, state is %s", s.state)
	}
	if s.dev.Mesh().CellDimension() != 1 {
		return fmt.Errorf("equation assembly unimplemented for cell dimension %d",
			s.dev.Mesh().CellDimension())
	}
	s.state = Running

	var (
		nl      = s.cfg.Nonlinear
		damping = nl.Damping
	)
	fmt.Printf("* simulator: %s electrons, %s holes, damping %.3g, max %d iterations\n",
		s.cfg.ElectronEquation, s.cfg.HoleEquation, damping, nl.MaxIters)

	for iter := 1; iter <= nl.MaxIters; iter++ {
		s.iterations = iter
		s.residual = 0

		// Poisson for the potential given current densities
		if err = s.solveAndDamp(PotentialQuantity, s.potential, damping, func() (*solvers.System, error) {
			return s.assemblePoisson()
		}); err != nil {
			s.state = Failed
			return fmt.Errorf("iteration %d: poisson: %w", iter, err)
		}

		// transport equations against the updated potential
		for _, ct := range []CarrierType{Electron, Hole} {
			kind := s.equationOf(ct)
			if kind == None {
				continue
			}
			field := s.n
			name := ElectronDensityQuantity
			if ct == Hole {
				field = s.p
				name = HoleDensityQuantity
			}
			if err = s.solveAndDamp(name, field, damping, func() (*solvers.System, error) {
				return s.assembleContinuity(ct)
			}); err != nil {
				s.state = Failed
				return fmt.Errorf("iteration %d: %s %s: %w", iter, ct, kind, err)
			}
		}
		s.updateDistributions()

		fmt.Printf("* simulator: iter %3d, residual = %.6e\n", iter, s.residual)
		if s.residual <= nl.Tolerance {
			s.state = Converged
			return nil
		}
	}

	s.state = MaxIterationsReached
	return &NotConvergedError{
		Iterations: nl.MaxIters,
		Residual:   s.residual,
		Tolerance:  nl.Tolerance,
	}
}

// solveAndDamp assembles and solves one sub-equation, applies the damped
// update x + damping*(x_hat - x) in place, and folds the update magnitude
// into the iteration residual. Potential changes count absolutely [V];
// density changes count relative to the field's magnitude.
func (s *Simulator) solveAndDamp(name Quantity, field utils.Vector, damping float64,
	assemble func() (*solvers.System, error)) (err error) {
	sys, err := assemble()
	if err != nil {
		return
	}
	candidate, err := solvers.Solve(sys, s.cfg.LinearSolver)
	if err != nil {
		return
	}
	var (
		prev = field.Copy()
		data = field.DataP()
	)
	for i, old := range data {
		data[i] = old + damping*(candidate[i]-old)
	}
	change := field.MaxAbsDiff(prev)
	if name != PotentialQuantity {
		if scale := field.Copy().Apply(math.Abs).Max(); scale > 0 {
			change /= scale
		}
	}
	if change > s.residual {
		s.residual = change
	}
	return
}

// updateDistributions refreshes the SHE distribution functions from the
// damped densities: the zeroth harmonic takes the heated-Maxwellian closure
// reproducing each cell's density, which keeps the moment hierarchy
// consistent between Gummel iterations.
func (s *Simulator) updateDistributions() {
	var nc = s.dev.Mesh().NumCells()
	if s.edfN != nil {
		for c := 0; c < nc; c++ {
			s.edfN.SetEquilibrium(c, s.n.AtVec(c), s.cfg.Temperature)
		}
	}
	if s.edfP != nil {
		for c := 0; c < nc; c++ {
			s.edfP.SetEquilibrium(c, s.p.AtVec(c), s.cfg.Temperature)
		}
	}
}
