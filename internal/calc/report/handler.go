package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	beam "Stratum/internal/calc/beam"

	"github.com/sgostarter/i/l"
)

type Analyzer interface {
	Analyze(ctx context.Context, in beam.Input) (beam.Result, error)
}

type Input struct {
	Meta
	Beam beam.Input `json:"beam"`
}

type Handler struct {
	Analyzer Analyzer
	Logger   l.Wrapper
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Analyzer.Analyze(r.Context(), input.Beam)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	id, err := Write(&buf, input.Meta, input.Beam, res)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithFields(l.ErrorField(err)).Error("render report")
		}
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"beam-"+id+".pdf\"")
	w.Write(buf.Bytes())
}
