package beam

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"Stratum/internal/auth"
	"Stratum/internal/repo"

	"github.com/gorilla/mux"
	"github.com/sgostarter/i/l"
)

// HistoryHandler saves analyses per user and lists them back.
type HistoryHandler struct {
	Service *Service
	Repo    repo.Repository
	Logger  l.Wrapper
}

type SaveRequest struct {
	Title string `json:"title"`
	Input Input  `json:"input"`
}

type SaveResponse struct {
	Analysis repo.Analysis `json:"analysis"`
	Result   Result        `json:"result"`
}

func (h *HistoryHandler) logger() l.Wrapper {
	if h.Logger == nil {
		return l.NewNopLoggerWrapper()
	}
	return h.Logger
}

func (h *HistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Service.Analyze(r.Context(), req.Input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	raw, _ := json.Marshal(req.Input)
	rec, err := h.Repo.SaveAnalysis(r.Context(), repo.Analysis{
		UserID:          userID,
		Title:           req.Title,
		Support:         string(res.Properties.Support),
		Input:           raw,
		MaxMomentKNM:    res.MaxValues.Moment.Value,
		MaxShearKN:      res.MaxValues.Shear.Value,
		MaxDeflectionMM: res.MaxValues.Deflection.Value,
	})
	if err != nil {
		h.logger().WithFields(l.ErrorField(err), l.IntField("userID", userID)).Error("save analysis")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SaveResponse{Analysis: rec, Result: res})
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.Repo.ListAnalyses(r.Context(), userID, limit)
	if err != nil {
		h.logger().WithFields(l.ErrorField(err), l.IntField("userID", userID)).Error("list analyses")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []repo.Analysis{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// Get re-runs a saved analysis so the client receives full diagrams.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	rec, err := h.Repo.GetAnalysis(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "Analysis not found", http.StatusNotFound)
			return
		}
		h.logger().WithFields(l.ErrorField(err), l.IntField("userID", userID)).Error("get analysis")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	var in Input
	if err := json.Unmarshal(rec.Input, &in); err != nil {
		http.Error(w, "Stored input is corrupt", http.StatusInternalServerError)
		return
	}
	res, err := h.Service.Analyze(r.Context(), in)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SaveResponse{Analysis: rec, Result: res})
}
