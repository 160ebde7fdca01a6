package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gauravkatara53/Topic-Backend/internal/middleware"
	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
)

type UploadHandler struct {
	storage   services.FileStorage
	maxSizeMB int64
}

func NewUploadHandler(storage services.FileStorage, maxSizeMB int64) *UploadHandler {
	return &UploadHandler{
		storage:   storage,
		maxSizeMB: maxSizeMB,
	}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxSizeMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No file provided"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !isAllowedUploadType(contentType) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid file type. Allowed: JPEG, PNG, GIF, WebP, PDF"))
		return
	}

	response, err := h.storage.Upload(r.Context(), userID, header.Filename, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to upload file"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(response))
}

type deleteUploadRequest struct {
	Filename string `json:"filename"`
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req deleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Filename) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Filename is required"))
		return
	}

	err := h.storage.Delete(r.Context(), userID, req.Filename)
	if err != nil {
		if err == services.ErrFileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("File not found"))
			return
		}
		if err == services.ErrUnauthorized {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to delete this file"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete file"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse(nil, "File deleted successfully"))
}

func isAllowedUploadType(contentType string) bool {
	allowed := map[string]bool{
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
		"image/gif":       true,
		"image/webp":      true,
		"application/pdf": true,
	}
	return allowed[contentType]
}
