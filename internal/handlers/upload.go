package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"indiadaily/internal/storage"
)

// maxUploadSize is the maximum allowed image upload size (5 MB).
const maxUploadSize = 5 << 20

// allowedImageTypes are the MIME types accepted for article images.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload handles article image uploads to object storage.
type Upload struct {
	storage *storage.Client
}

// NewUpload creates the upload handler. storageClient may be nil when object
// storage is not configured; uploads then answer 503.
func NewUpload(storageClient *storage.Client) *Upload {
	return &Upload{storage: storageClient}
}

// Image handles POST /api/upload. It accepts a multipart form with an
// "image" field and responds with the public URL of the stored file.
func (h *Upload) Image(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 5 MB.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read image file")
		return
	}

	// Sniff the real content type instead of trusting the client header.
	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		respondError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	// Keep the original extension when it matches the detected type family.
	if orig := strings.ToLower(filepath.Ext(header.Filename)); orig == ".jpeg" && ext == ".jpg" {
		ext = ".jpeg"
	}

	key := "uploads/" + uuid.NewString() + ext
	if err := h.storage.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("image upload failed", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": h.storage.FileURL(key)})
}
