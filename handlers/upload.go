package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"todo-api/attachments"
	"todo-api/logging"
	"todo-api/utils"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadHandler accepts and serves attachments for the local store.
type UploadHandler struct {
	store  *attachments.LocalStore
	logger *slog.Logger
}

func NewUploadHandler(store *attachments.LocalStore, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{store: store, logger: logging.Component(logger, "uploads")}
}

// PutAttachment stores the request body when the URL's token allows it.
func (h *UploadHandler) PutAttachment(w http.ResponseWriter, r *http.Request) {
	attachmentID := mux.Vars(r)["attachmentId"]

	if err := h.store.Verify(attachmentID, r.URL.Query().Get("token")); err != nil {
		http.Error(w, "Invalid or expired upload URL", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	n, err := h.store.Save(attachmentID, r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, attachments.ErrInvalidAttachment):
			http.Error(w, "Invalid attachment ID", http.StatusBadRequest)
		case errors.As(err, &tooLarge):
			http.Error(w, "Attachment too large", http.StatusRequestEntityTooLarge)
		default:
			h.logger.Error("failed to save attachment", "attachmentId", attachmentID, "error", err)
			http.Error(w, "Failed to save file", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("attachment uploaded", "attachmentId", attachmentID, "bytes", n)
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Attachment uploaded",
		"url":     h.store.PublicURL(attachmentID),
	})
}

// GetAttachment serves a previously uploaded file.
func (h *UploadHandler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	path, err := h.store.Path(mux.Vars(r)["attachmentId"])
	if err != nil {
		http.Error(w, "Attachment not found", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Attachment not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}
