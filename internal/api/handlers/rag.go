package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/edustack/edustack/internal/rag"
)

type RAGHandler struct {
	engine *rag.Engine
}

func NewRAGHandler(e *rag.Engine) *RAGHandler {
	return &RAGHandler{engine: e}
}

func (h *RAGHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeErr(w, http.StatusBadRequest, "query required")
		return
	}

	resp, err := h.engine.Query(r.Context(), req.Query)
	if err != nil {
		slog.Error("rag query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, rag.QueryResponse{
			Answer:  rag.ApologyAnswer,
			Sources: []rag.Source{},
		})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
