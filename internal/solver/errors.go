package solver

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotConverged indicates the iteration cap was reached with a residual
// larger than the caller accepts.
var ErrNotConverged = errors.New("root finder did not converge")

// ConvergenceError carries the result of a run that failed a strict check.
type ConvergenceError struct {
	// Result is the best-effort outcome of the run.
	Result Result
	// FTol is the residual tolerance that was exceeded.
	FTol float64
}

// Error implements the error interface for ConvergenceError.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: root=%g, residual=%g, ftol=%g, iterations=%d",
		ErrNotConverged, e.Result.Root, e.Result.Residual, e.FTol, e.Result.Iterations)
}

// Unwrap returns ErrNotConverged.
func (e *ConvergenceError) Unwrap() error { return ErrNotConverged }

// Check returns a *ConvergenceError when |Residual| exceeds fTol and nil
// otherwise. Converged alone is not trusted: without a true bracket the
// search can collapse onto a point that is not a root. A NaN residual
// always fails.
func (r Result) Check(fTol float64) error {
	if math.Abs(r.Residual) <= fTol {
		return nil
	}
	return &ConvergenceError{Result: r, FTol: fTol}
}
