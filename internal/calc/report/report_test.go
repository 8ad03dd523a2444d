package report

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	beam "Stratum/internal/calc/beam"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() beam.Input {
	return beam.Input{
		SpanM: 6,
		IM4:   1e-4,
		Loads: []beam.Load{beam.PointLoad(10, 3), beam.DistributedLoad(2, 0, 6)},
	}
}

func TestWriteProducesPDF(t *testing.T) {
	in := sampleInput()
	res, err := beam.Calculate(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	id, err := Write(&buf, Meta{Project: "Warehouse", Author: "QA", Notes: "Level 2 girder"}, in, res)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteEmptyDiagrams(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, Meta{}, beam.Input{}, beam.Result{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestHandlerGenerate(t *testing.T) {
	h := &Handler{Analyzer: beam.NewService(nil, 0, nil)}
	body := `{"title":"Girder","beam":{"span_m":6,"i_m4":1e-4,"loads":[{"kind":"point","magnitude":10,"position":3}]}}`
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/tools/beam/report/pdf", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestHandlerRejectsInvalidBeam(t *testing.T) {
	h := &Handler{Analyzer: beam.NewService(nil, 0, nil)}
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"beam":{"span_m":-1}}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
