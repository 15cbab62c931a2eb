// Package solver finds roots of scalar functions on a bracket without
// derivatives. It is used to invert score-versus-handicap relationships that
// have no closed-form inverse.
package solver

import "math"

// Defaults used by DefaultOptions.
const (
	DefaultXTol          = 1.0e-16
	DefaultRTol          = 0.0
	DefaultMaxIterations = 50
)

// Func is a continuous scalar function. It need not be smooth.
type Func func(x float64) float64

// Options controls termination of Solve.
type Options struct {
	// XTol is the absolute tolerance on x.
	XTol float64 `yaml:"x_tol" env:"XTOL" validate:"min=0"`
	// RTol is the tolerance relative to |x|.
	RTol float64 `yaml:"r_tol" env:"RTOL" validate:"min=0"`
	// MaxIterations caps the number of function evaluations after the two
	// bracket endpoints. It is a hard stop, not a convergence guarantee.
	MaxIterations int `yaml:"max_iterations" env:"MAX_ITERATIONS" validate:"min=1,max=10000"`
}

// DefaultOptions returns the tolerances the handicap tables are built with.
func DefaultOptions() Options {
	return Options{
		XTol:          DefaultXTol,
		RTol:          DefaultRTol,
		MaxIterations: DefaultMaxIterations,
	}
}

// Result is the outcome of a Solve call.
type Result struct {
	// Root is the best estimate of x where f(x) == 0.
	Root float64
	// Residual is f(Root).
	Residual float64
	// Iterations is the number of loop passes performed.
	Iterations int
	// Converged is true when f(Root) was exactly zero or the bracket shrank
	// below the tolerance before the iteration cap.
	Converged bool
}

// Solve finds x in [xMin, xMax] with f(x) ≈ 0 using Brent's method with
// hyperbolic extrapolation, falling back to bisection when the trial step
// is not clearly shrinking the bracket.
//
// The caller must supply a genuine bracket: f(xMin) and f(xMax) should have
// opposite signs. This is not checked. Without a sign change the search
// narrows inside the interval and the returned Root is not meaningful, which
// callers detect through Residual.
//
// Solve never fails. When the iteration cap is reached it returns the latest
// estimate with Converged false; use Result.Check for strict handling.
func Solve(f Func, xMin, xMax float64, opts Options) Result {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	xpre, xcur := xMin, xMax
	fpre, fcur := f(xpre), f(xcur)
	// Keep the end with the smaller |f| as the current estimate.
	if math.Abs(fpre) < math.Abs(fcur) {
		xpre, xcur = xcur, xpre
		fpre, fcur = fcur, fpre
	}

	// The block point is the opposite end of the bracket from xcur.
	xblk, fblk := xpre, fpre
	var spre, scur float64

	res := Result{Root: xcur, Residual: fcur}
	for i := 1; i <= opts.MaxIterations; i++ {
		res.Iterations = i

		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (opts.XTol + opts.RTol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2

		if fcur == 0 || math.Abs(sbis) < delta {
			res.Root, res.Residual, res.Converged = xcur, fcur, true
			return res
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// Secant.
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// Hyperbolic extrapolation through three points.
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk - fpre) / (fblk*dpre - fpre*dblk)
			}

			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		switch {
		case math.Abs(scur) > delta:
			xcur += scur
		case sbis > 0:
			xcur += delta
		default:
			xcur -= delta
		}

		fcur = f(xcur)
		res.Root, res.Residual = xcur, fcur
	}
	return res
}
