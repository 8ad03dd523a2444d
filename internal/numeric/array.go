package numeric

import "math"

// Interpolate evaluates the piecewise-linear curve through (x, y) at xi.
// x must be ascending. Queries outside the range clamp to the end values.
func Interpolate(x, y []float64, xi float64) float64 {
	n := len(x)
	if n == 0 || len(y) < n {
		return math.NaN()
	}
	if xi <= x[0] {
		return y[0]
	}
	if xi >= x[n-1] {
		return y[n-1]
	}
	for i := 0; i < n-1; i++ {
		if xi >= x[i] && xi <= x[i+1] {
			span := x[i+1] - x[i]
			if span == 0 {
				return y[i]
			}
			t := (xi - x[i]) / span
			return y[i] + t*(y[i+1]-y[i])
		}
	}
	return y[n-1]
}

// Linspace returns n evenly spaced points from start to end inclusive.
// n < 2 yields just [start].
func Linspace(start, end float64, n int) []float64 {
	if n < 2 {
		return []float64{start}
	}
	out := make([]float64, n)
	last := float64(n - 1)
	for i := range out {
		out[i] = start + (end-start)*float64(i)/last
	}
	out[n-1] = end
	return out
}

func Zeros(n int) []float64 {
	if n < 0 {
		n = 0
	}
	return make([]float64, n)
}

// Extremum is the largest-magnitude sample of an array.
type Extremum struct {
	Value    float64 `json:"value"`
	Abs      float64 `json:"abs"`
	Index    int     `json:"index"`
	Position float64 `json:"position"`
}

// FindMaxAbs returns the first sample with the strictly greatest |value|.
// Position is Index*dx. An all-zero or empty array reports index 0.
func FindMaxAbs(arr []float64, dx float64) Extremum {
	var ext Extremum
	for i, v := range arr {
		if a := math.Abs(v); a > ext.Abs {
			ext = Extremum{Value: v, Abs: a, Index: i}
		}
	}
	ext.Position = float64(ext.Index) * dx
	return ext
}

// RoundTo rounds half away from zero to the given number of decimals.
func RoundTo(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}
