package handlers

import (
	"io"
	"net/http"

	"github.com/edustack/edustack/internal/inference"
)

type TranscribeHandler struct {
	client *inference.Client
	model  string
}

func NewTranscribeHandler(client *inference.Client, model string) *TranscribeHandler {
	return &TranscribeHandler{client: client, model: model}
}

// Transcribe accepts an uploaded audio file and returns its transcription.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "read uploaded file: "+err.Error())
		return
	}
	if len(audio) == 0 {
		writeErr(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}

	text, err := h.client.Transcribe(r.Context(), header.Filename, audio, h.model)
	if err != nil {
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
