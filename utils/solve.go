package utils

import "fmt"

// SingularMatrixError reports a local dense system whose matrix is not
// invertible within working precision. Dims carries the system size so
// callers can attribute the failure.
type SingularMatrixError struct {
	Dims int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("singular %dx%d local system", e.Dims, e.Dims)
}

// SolveSymmetric solves the small symmetric system M*v = b via direct
// factorization. M is geo_dim x geo_dim, so no iterative method is warranted.
// Returns a SingularMatrixError when M is not invertible within tolerance.
func SolveSymmetric(M Matrix, b Vector) (v Vector, err error) {
	var (
		nr, nc = M.Dims()
	)
	if nr != nc || b.Len() != nr {
		err = fmt.Errorf("dimension mismatch: M is %dx%d, b has length %d", nr, nc, b.Len())
		return
	}
	v = NewVector(nr)
	if solveErr := v.V.SolveVec(M.M, b.V); solveErr != nil {
		// gonum reports both exact singularity and hopeless conditioning
		// through the returned error.
		err = &SingularMatrixError{Dims: nr}
		v = Vector{}
	}
	return
}
