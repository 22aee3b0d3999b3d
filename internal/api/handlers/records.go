package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edustack/edustack/internal/records"
)

type RecordsHandler struct {
	repo *records.Repo
}

func NewRecordsHandler(repo *records.Repo) *RecordsHandler {
	return &RecordsHandler{repo: repo}
}

func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rec records.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if rec.GenerationType == "" {
		writeErr(w, http.StatusBadRequest, "generationType required")
		return
	}

	if err := h.repo.Create(r.Context(), &rec); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	recs, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": recs, "count": len(recs)})
}

func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid record id")
		return
	}

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeErr(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
