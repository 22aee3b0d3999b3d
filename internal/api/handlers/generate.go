package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/edustack/edustack/internal/generate"
)

type GenerateHandler struct {
	dispatcher *generate.Dispatcher
}

func NewGenerateHandler(d *generate.Dispatcher) *GenerateHandler {
	return &GenerateHandler{dispatcher: d}
}

// Generate runs one generation request. Any modeled outcome, success or
// failure, is HTTP 200; only a panic gets a 500 (via the recoverer).
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generate.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := h.dispatcher.Dispatch(r.Context(), req)
	writeJSON(w, http.StatusOK, result)
}
