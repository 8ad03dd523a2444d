package beam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Stratum/internal/auth"
	"Stratum/internal/repo"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	repo.Repository
	next     uint64
	analyses []repo.Analysis
}

func (m *memRepo) SaveAnalysis(_ context.Context, a repo.Analysis) (repo.Analysis, error) {
	m.next++
	a.ID = m.next
	a.CreatedAt = time.Unix(int64(m.next), 0)
	m.analyses = append(m.analyses, a)
	return a, nil
}

func (m *memRepo) ListAnalyses(_ context.Context, userID, _ int) ([]repo.Analysis, error) {
	var out []repo.Analysis
	for _, a := range m.analyses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) GetAnalysis(_ context.Context, userID int, id uint64) (repo.Analysis, error) {
	for _, a := range m.analyses {
		if a.UserID == userID && a.ID == id {
			return a, nil
		}
	}
	return repo.Analysis{}, repo.ErrNotFound
}

func historyRouter(h *HistoryHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/user/analyses", h.Save).Methods("POST")
	r.HandleFunc("/api/user/analyses", h.List).Methods("GET")
	r.HandleFunc("/api/user/analyses/{id:[0-9]+}", h.Get).Methods("GET")
	return r
}

func asUser(req *http.Request, id int) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), id, "user"))
}

func TestHistorySaveListGet(t *testing.T) {
	store := &memRepo{}
	r := historyRouter(&HistoryHandler{Service: NewService(nil, 0, nil), Repo: store})

	body := `{"title":"L2 girder","input":{"span_m":6,"i_m4":1e-4,"loads":[{"kind":"point","magnitude":10,"position":3}]}}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/user/analyses", strings.NewReader(body)), 7))
	require.Equal(t, http.StatusCreated, rec.Code)

	var saved SaveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.Equal(t, uint64(1), saved.Analysis.ID)
	assert.Equal(t, "simply_supported", saved.Analysis.Support)
	assert.InDelta(t, 15.0, saved.Analysis.MaxMomentKNM, 1e-9)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/user/analyses", nil), 7))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []repo.Analysis
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 1)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/user/analyses/1", nil), 7))
	require.Equal(t, http.StatusOK, rec.Code)
	var got SaveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.InDelta(t, 5.0, got.Result.Reactions.Ra, 1e-9)
}

func TestHistoryIsolatedPerUser(t *testing.T) {
	store := &memRepo{analyses: []repo.Analysis{{ID: 3, UserID: 1, Input: json.RawMessage(`{}`)}}}
	r := historyRouter(&HistoryHandler{Service: NewService(nil, 0, nil), Repo: store})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/user/analyses/3", nil), 2))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/user/analyses", nil), 2))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestHistoryRequiresUser(t *testing.T) {
	r := historyRouter(&HistoryHandler{Service: NewService(nil, 0, nil), Repo: &memRepo{}})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/analyses", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHistoryRejectsInvalidBeam(t *testing.T) {
	store := &memRepo{}
	r := historyRouter(&HistoryHandler{Service: NewService(nil, 0, nil), Repo: store})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/user/analyses", strings.NewReader(`{"input":{"span_m":0}}`)), 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.analyses)
}
