package numeric

import (
	"errors"
	"fmt"
)

var ErrTooFewPoints = errors.New("not enough sample points")

// Simpson integrates uniformly spaced samples with the composite 1/3 rule.
// An odd interval count is handled by Simpson over the first n-1 intervals
// plus a trapezoid over the last one.
func Simpson(y []float64, dx float64) (float64, error) {
	n := len(y) - 1
	if n < 2 {
		return 0, fmt.Errorf("simpson needs at least 2 intervals, got %d: %w", n, ErrTooFewPoints)
	}

	even := n
	if n%2 == 1 {
		even = n - 1
	}

	sum := y[0] + y[even]
	for i := 1; i < even; i++ {
		if i%2 == 1 {
			sum += 4 * y[i]
		} else {
			sum += 2 * y[i]
		}
	}
	result := sum * dx / 3

	if even != n {
		result += (y[n-1] + y[n]) * dx / 2
	}
	return result, nil
}

// Trapezoidal integrates uniformly spaced samples with the trapezoidal rule.
func Trapezoidal(y []float64, dx float64) (float64, error) {
	if len(y) < 2 {
		return 0, fmt.Errorf("trapezoidal needs at least 2 points, got %d: %w", len(y), ErrTooFewPoints)
	}
	sum := (y[0] + y[len(y)-1]) / 2
	for _, v := range y[1 : len(y)-1] {
		sum += v
	}
	return sum * dx, nil
}

// CumulativeIntegral returns the running trapezoidal integral of y, seeded
// with initial. out[i] is the integral from the first sample to sample i.
func CumulativeIntegral(y []float64, dx, initial float64) []float64 {
	out := make([]float64, len(y))
	if len(y) == 0 {
		return out
	}
	out[0] = initial
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + (y[i-1]+y[i])*dx/2
	}
	return out
}

// Derivative differentiates uniformly spaced samples: forward difference at
// the first point, backward at the last, central everywhere else.
func Derivative(y []float64, dx float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = (y[1] - y[0]) / dx
	for i := 1; i < n-1; i++ {
		out[i] = (y[i+1] - y[i-1]) / (2 * dx)
	}
	out[n-1] = (y[n-1] - y[n-2]) / dx
	return out
}
