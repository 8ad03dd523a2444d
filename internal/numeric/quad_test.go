package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(f Func, x []float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = f(v)
	}
	return y
}

func TestSimpsonExactForCubic(t *testing.T) {
	cubic := func(x float64) float64 { return 2*x*x*x - 3*x*x + x + 5 }
	// integral over [0, 2] = 8 - 8 + 2 + 10
	x := Linspace(0, 2, 11)
	got, err := Simpson(sample(cubic, x), x[1]-x[0])
	require.NoError(t, err)
	assert.InDelta(t, 12.0, got, 1e-12)
}

func TestSimpsonOddIntervalsAddsTrapezoid(t *testing.T) {
	y := []float64{1, 2, 3, 5}
	got, err := Simpson(y, 1)
	require.NoError(t, err)
	want := (1+4*2+3)/3.0 + (3+5)/2.0
	assert.InDelta(t, want, got, 1e-12)
}

func TestSimpsonTooFewPoints(t *testing.T) {
	_, err := Simpson([]float64{1, 2}, 1)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestTrapezoidal(t *testing.T) {
	got, err := Trapezoidal([]float64{0, 1, 2, 3}, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.25, got, 1e-12)

	_, err = Trapezoidal([]float64{1}, 1)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestCumulativeIntegral(t *testing.T) {
	got := CumulativeIntegral([]float64{1, 1, 1, 1}, 0.5, 2)
	assert.Equal(t, []float64{2, 2.5, 3, 3.5}, got)
	assert.Empty(t, CumulativeIntegral(nil, 1, 0))
}

func TestIntegralAndDerivativeAreInverse(t *testing.T) {
	var prevErr float64
	for i, n := range []int{21, 81, 321} {
		x := Linspace(0, math.Pi, n)
		dx := x[1] - x[0]

		integral := CumulativeIntegral(sample(math.Cos, x), dx, 0)
		intErr := 0.0
		for j, v := range x {
			intErr = math.Max(intErr, math.Abs(integral[j]-math.Sin(v)))
		}

		deriv := Derivative(sample(math.Sin, x), dx)
		derivErr := 0.0
		for j := 1; j < n-1; j++ {
			derivErr = math.Max(derivErr, math.Abs(deriv[j]-math.Cos(x[j])))
		}

		total := intErr + derivErr
		assert.Less(t, total, 1e-2)
		if i > 0 {
			assert.Less(t, total, prevErr)
		}
		prevErr = total
	}
}

func TestDerivativeEnds(t *testing.T) {
	got := Derivative([]float64{0, 1, 4, 9}, 1)
	assert.Equal(t, []float64{1, 2, 4, 5}, got)
	assert.Equal(t, []float64{0}, Derivative([]float64{3}, 1))
}
