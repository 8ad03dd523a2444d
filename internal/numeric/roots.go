// Package numeric holds the stateless numerical kernel shared by the
// calculators: root finding, quadrature, running integrals, finite
// differences, interpolation and a few array helpers.
package numeric

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100

	// derivativeStep is the central-difference step used when no analytical
	// derivative is supplied to NewtonRaphson.
	derivativeStep = 1e-8
	// flatDerivative is the |f'(x)| below which a Newton step is not taken.
	flatDerivative = 1e-15
)

var ErrNoSignChange = errors.New("function must have opposite signs at interval endpoints")

// Func is a scalar function of one variable.
type Func func(x float64) float64

type RootOptions struct {
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
}

func (o RootOptions) withDefaults() RootOptions {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// RootResult is shared by NewtonRaphson and Bisection. Non-convergence is
// reported through Converged, never as an error.
type RootResult struct {
	Root       float64 `json:"root"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	Error      float64 `json:"error"`
	FValue     float64 `json:"f_value"`
	// Perturbations counts iterations spent nudging x off a flat derivative.
	Perturbations int `json:"perturbations"`
	// Fallback is set by SolveWithFallback when the root came from Bisection.
	Fallback bool `json:"fallback,omitempty"`
}

// CentralDifference approximates f'(x) with step h.
func CentralDifference(f Func, x, h float64) float64 {
	return (f(x+h) - f(x-h)) / (2 * h)
}

// NewtonRaphson iterates x <- x - f(x)/f'(x) from x0. When df is nil the
// derivative is approximated by CentralDifference. A flat derivative moves x
// by 10*tolerance and consumes the iteration instead of failing.
func NewtonRaphson(f, df Func, x0 float64, opts RootOptions) RootResult {
	opts = opts.withDefaults()
	if df == nil {
		df = func(x float64) float64 { return CentralDifference(f, x, derivativeStep) }
	}

	// Error stays 0 until a Newton step is taken.
	res := RootResult{Root: x0}
	x := x0
	for i := 0; i < opts.MaxIterations; i++ {
		fx := f(x)
		dfx := df(x)
		if math.Abs(dfx) < flatDerivative {
			x += opts.Tolerance * 10
			res.Perturbations++
			res.Iterations = i + 1
			continue
		}

		next := x - fx/dfx
		res.Error = math.Abs(next - x)
		res.Iterations = i + 1
		x = next
		if res.Error < opts.Tolerance {
			res.Root = x
			res.Converged = true
			res.FValue = f(x)
			return res
		}
	}

	res.Root = x
	res.FValue = f(x)
	return res
}

// Bisection halves [a, b] until |f(mid)| or the half width drops below the
// tolerance. The bracket must straddle a root.
func Bisection(f Func, a, b float64, opts RootOptions) (RootResult, error) {
	opts = opts.withDefaults()
	fa, fb := f(a), f(b)
	if fa*fb > 0 {
		return RootResult{}, fmt.Errorf("bisection on [%g, %g]: %w", a, b, ErrNoSignChange)
	}

	switch {
	case fa == 0:
		return RootResult{Root: a, Converged: true}, nil
	case fb == 0:
		return RootResult{Root: b, Converged: true}, nil
	}

	var res RootResult
	for i := 0; i < opts.MaxIterations; i++ {
		mid := (a + b) / 2
		fmid := f(mid)
		half := (b - a) / 2

		res.Iterations = i + 1
		res.Root = mid
		res.FValue = fmid
		res.Error = half
		if math.Abs(fmid) < opts.Tolerance || half < opts.Tolerance {
			res.Converged = true
			return res, nil
		}

		if fa*fmid < 0 {
			b = mid
		} else {
			a, fa = mid, fmid
		}
	}

	res.Root = (a + b) / 2
	res.FValue = f(res.Root)
	res.Error = (b - a) / 2
	return res, nil
}

// SolveWithFallback runs NewtonRaphson from x0 and falls back to Bisection
// over [a, b] when Newton does not converge or leaves the bracket.
func SolveWithFallback(f, df Func, x0, a, b float64, opts RootOptions) (RootResult, error) {
	res := NewtonRaphson(f, df, x0, opts)
	if res.Converged && res.Root >= a && res.Root <= b {
		return res, nil
	}
	res, err := Bisection(f, a, b, opts)
	res.Fallback = err == nil
	return res, err
}
