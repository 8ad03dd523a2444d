package loads

import (
	"context"
	"encoding/json"
	"net/http"

	beam "Stratum/internal/calc/beam"
)

type Analyzer interface {
	Analyze(ctx context.Context, in beam.Input) (beam.Result, error)
}

type Request struct {
	Input
	// Beam, when present, is analysed under the factored loads; its own
	// Loads field is replaced.
	Beam *beam.Input `json:"beam,omitempty"`
}

type Response struct {
	Result
	Analysis *beam.Result `json:"analysis,omitempty"`
}

type Handler struct {
	Analyzer Analyzer
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(req.Input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	out := Response{Result: res}
	if req.Beam != nil && h.Analyzer != nil {
		in := *req.Beam
		in.Loads = res.Loads
		analysis, err := h.Analyzer.Analyze(r.Context(), in)
		if err != nil {
			http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
			return
		}
		out.Analysis = &analysis
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
