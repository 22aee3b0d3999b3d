package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/edustack/edustack/internal/storage"
)

type FilesHandler struct {
	store  storage.Storage
	bucket string
}

func NewFilesHandler(store storage.Storage, bucket string) *FilesHandler {
	return &FilesHandler{store: store, bucket: bucket}
}

// Upload stores a file and returns its public URL. The stored path is
// prefixed with a timestamp and a random id so names never collide.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeErr(w, http.StatusServiceUnavailable, "file storage not configured")
		return
	}

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

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.NewString()[:8],
		filepath.Ext(header.Filename))

	if err := h.store.Upload(r.Context(), h.bucket, path, file, contentType); err != nil {
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"path": path,
		"url":  h.store.GetPublicURL(h.bucket, path),
	})
}
