package batch

import (
	"encoding/json"
	"net/http"

	"github.com/sgostarter/i/l"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Analyzer Analyzer
	Workers  int
	Logger   l.Wrapper
}

func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := validate(input); err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	res := Run(r.Context(), h.Analyzer, input.Items, h.Workers)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Import analyses an uploaded workbook. With ?format=xlsx the summary is
// returned as a workbook instead of JSON.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	items, err := ReadWorkbook(file)
	if err != nil {
		http.Error(w, "Invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}
	res := Run(r.Context(), h.Analyzer, items, h.Workers)
	if h.Logger != nil {
		h.Logger.WithFields(l.IntField("count", res.Count), l.IntField("failed", res.Failed)).Info("workbook imported")
	}

	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", "attachment; filename=\"results.xlsx\"")
		if err := WriteWorkbook(w, res); err != nil && h.Logger != nil {
			h.Logger.WithFields(l.ErrorField(err)).Error("write workbook")
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
