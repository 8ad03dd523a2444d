package loads

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	beam "Stratum/internal/calc/beam"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFactors(t *testing.T) {
	in := Input{
		Method:    MethodEC7,
		Permanent: []beam.Load{beam.DistributedLoad(2, 0, 6)},
		LongTerm:  []beam.Load{beam.PointLoad(10, 3)},
		ShortTerm: []beam.Load{beam.MomentLoad(4, 1)},
	}
	res, err := Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, "EC7 STR/GEO", res.ComboName)
	require.Len(t, res.Loads, 3)
	assert.InDelta(t, 2.7, res.Loads[0].Magnitude, 1e-12)
	assert.InDelta(t, 15.0, res.Loads[1].Magnitude, 1e-12)
	assert.InDelta(t, 6.0, res.Loads[2].Magnitude, 1e-12)
	assert.InDelta(t, 2.7*6+15, res.DesignTotalKN, 1e-9)

	// Inputs are not scaled in place.
	assert.Equal(t, 2.0, in.Permanent[0].Magnitude)
}

func TestCalculateDefaultMethod(t *testing.T) {
	res, err := Calculate(Input{Permanent: []beam.Load{beam.PointLoad(10, 1)}})
	require.NoError(t, err)
	assert.Equal(t, "SP24 basic", res.ComboName)
	assert.InDelta(t, 11.0, res.DesignTotalKN, 1e-12)
}

func TestCalculateRequiresPermanent(t *testing.T) {
	_, err := Calculate(Input{ShortTerm: []beam.Load{beam.PointLoad(1, 1)}})
	assert.Error(t, err)
}

func TestHandlerAnalysesFactoredBeam(t *testing.T) {
	h := &Handler{Analyzer: beam.NewService(nil, 0, nil)}
	body := `{"method":"SP22","permanent":[{"kind":"point","magnitude":10,"position":3}],
		"beam":{"span_m":6,"i_m4":1e-4}}`
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/tools/loads/calc", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.NotNil(t, out.Analysis)
	assert.InDelta(t, 5.25, out.Analysis.Reactions.Ra, 1e-9)
}
