package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square4(x float64) float64 { return x*x - 4 }

func TestNewtonRaphsonAnalytical(t *testing.T) {
	res := NewtonRaphson(square4, func(x float64) float64 { return 2 * x }, 3, RootOptions{})
	assert.True(t, res.Converged)
	assert.InDelta(t, 2.0, res.Root, 1e-6)
	assert.Less(t, res.Iterations, 10)
	assert.Less(t, res.Error, DefaultTolerance)
	assert.InDelta(t, 0, res.FValue, 1e-9)
	assert.Zero(t, res.Perturbations)
}

func TestNewtonRaphsonNumericalDerivative(t *testing.T) {
	res := NewtonRaphson(square4, nil, 3, RootOptions{})
	assert.True(t, res.Converged)
	assert.InDelta(t, 2.0, res.Root, 1e-6)
	assert.Less(t, res.Iterations, 10)
}

func TestNewtonRaphsonFlatDerivativePerturbs(t *testing.T) {
	// f'(0) = 0, so the first iteration is spent moving off the stationary point.
	res := NewtonRaphson(square4, func(x float64) float64 { return 2 * x }, 0, RootOptions{})
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Perturbations)
	assert.InDelta(t, 2.0, res.Root, 1e-6)
}

func TestNewtonRaphsonNonConvergence(t *testing.T) {
	// x^2 + 1 has no real root.
	f := func(x float64) float64 { return x*x + 1 }
	res := NewtonRaphson(f, nil, 0.5, RootOptions{MaxIterations: 20})
	assert.False(t, res.Converged)
	assert.Equal(t, 20, res.Iterations)
}

func TestBisection(t *testing.T) {
	res, err := Bisection(square4, 0, 5, RootOptions{})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 2.0, res.Root, 1e-5)
}

func TestBisectionRejectsSameSign(t *testing.T) {
	_, err := Bisection(square4, 3, 5, RootOptions{})
	assert.ErrorIs(t, err, ErrNoSignChange)
}

func TestBisectionExhaustsIterations(t *testing.T) {
	res, err := Bisection(square4, 0, 5, RootOptions{Tolerance: 1e-12, MaxIterations: 3})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Iterations)
}

func TestSolveWithFallback(t *testing.T) {
	// Newton from 0 on a cube root diverges, so bisection has to take over.
	f := func(x float64) float64 { return math.Cbrt(x - 1) }
	res, err := SolveWithFallback(f, nil, 0, -2, 5, RootOptions{MaxIterations: 60})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 1.0, res.Root, 1e-5)
}

func TestBisectionRootOnEndpoint(t *testing.T) {
	res, err := Bisection(func(x float64) float64 { return x }, 0, 5, RootOptions{})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 0.0, res.Root)
	assert.Zero(t, res.FValue)

	res, err = Bisection(func(x float64) float64 { return x - 5 }, 0, 5, RootOptions{})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 5.0, res.Root)
}

func TestNewtonRaphsonFlatEverywhere(t *testing.T) {
	res := NewtonRaphson(func(float64) float64 { return 5 }, nil, 0, RootOptions{MaxIterations: 3})
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Perturbations)
	assert.False(t, math.IsInf(res.Error, 0))
	assert.Zero(t, res.Error)
}

func TestSolveWithFallbackReportsSource(t *testing.T) {
	res, err := SolveWithFallback(square4, nil, 3, 0, 5, RootOptions{})
	require.NoError(t, err)
	assert.False(t, res.Fallback)

	res, err = SolveWithFallback(func(x float64) float64 { return math.Cbrt(x - 1) }, nil, 0, -2, 5, RootOptions{MaxIterations: 60})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
}
