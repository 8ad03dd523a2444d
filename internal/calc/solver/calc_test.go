package solver

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Stratum/internal/numeric"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolynomial(t *testing.T) {
	f, df := polynomial([]float64{1, 0, -2}) // x^2 - 2
	assert.Equal(t, 7.0, f(3))
	assert.Equal(t, 6.0, df(3))
}

func TestCalculateNewton(t *testing.T) {
	res, err := Calculate(Input{Coefficients: []float64{1, 0, -2}, Method: MethodNewton, X0: 1})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, MethodNewton, res.Method)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-6)
}

func TestCalculateAutoFallsBackToBisection(t *testing.T) {
	// Newton from 0 on x^3 - 2x + 2 cycles between 0 and 1.
	res, err := Calculate(Input{Coefficients: []float64{1, 0, -2, 2}, X0: 0, A: -3, B: 0})
	require.NoError(t, err)
	assert.Equal(t, MethodBisection, res.Method)
	assert.True(t, res.Converged)
	assert.InDelta(t, -1.769292, res.Root, 1e-5)
}

func TestCalculateAutoPrefersNewton(t *testing.T) {
	res, err := Calculate(Input{Coefficients: []float64{1, 0, -2}, X0: 1, A: 0, B: 2})
	require.NoError(t, err)
	assert.Equal(t, MethodNewton, res.Method)
}

func TestCalculateErrors(t *testing.T) {
	_, err := Calculate(Input{Coefficients: []float64{1}})
	assert.Error(t, err)

	_, err = Calculate(Input{Coefficients: []float64{1, 0, 1}, Method: MethodBisection, A: -1, B: 1})
	assert.ErrorIs(t, err, numeric.ErrNoSignChange)

	_, err = Calculate(Input{Coefficients: []float64{1, -1}, Method: "secant"})
	assert.Error(t, err)
}

func TestHandlerRoots(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"coefficients":[1,-3],"method":"newton","x0":0}`
	(&Handler{}).Roots(rec, httptest.NewRequest(http.MethodPost, "/api/tools/solver/roots", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.InDelta(t, 3.0, res.Root, 1e-9)
	assert.Equal(t, MethodNewton, res.Method)
}

func TestCalculateBisectionRootOnEndpoint(t *testing.T) {
	res, err := Calculate(Input{Coefficients: []float64{1, 0}, Method: MethodBisection, A: 0, B: 5})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 0.0, res.Root)
}

func TestHandlerRootsFlatPolynomial(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"coefficients":[0,5],"method":"newton","max_iterations":3}`
	(&Handler{}).Roots(rec, httptest.NewRequest(http.MethodPost, "/api/tools/solver/roots", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Perturbations)
	assert.Equal(t, MethodNewton, res.Method)
}
