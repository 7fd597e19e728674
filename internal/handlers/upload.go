package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/LandyLee-gdut/essay-grader/internal/models"
)

// HandleUpload accepts a batch of essay page images and opens a grading
// session for them. Multipart form uploads carry the files directly; a JSON
// body carries an image URL instead.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLUpload(w, r)
		return
	}

	h.handleFileUpload(w, r)
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ImageURL string `json:"image_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	sessionID, err := h.createSessionFromURL(request.ImageURL)
	if err != nil {
		h.writeError(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]any{
		"session_id": sessionID,
		"message":    "Successfully processed image from URL",
		"images":     1,
		"source":     "url",
	}

	h.writeJSON(w, response)
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		h.writeError(w, "No images uploaded", http.StatusBadRequest)
		return
	}

	if err := h.ensureUploadsDir(); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var items []models.ImageItem
	for i, header := range files {
		ext := filepath.Ext(header.Filename)
		if !h.cfg.ExtensionAllowed(ext) {
			h.writeError(w, "Unsupported file type: "+ext, http.StatusBadRequest)
			return
		}

		file, err := header.Open()
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}

		fileData, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxFileSizeBytes()+1))
		file.Close()
		if err != nil {
			h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if int64(len(fileData)) > h.cfg.MaxFileSizeBytes() {
			h.writeError(w, fmt.Sprintf("File too large: %s (max %dMB)", header.Filename, h.cfg.MaxFileSizeMB), http.StatusBadRequest)
			return
		}

		item, err := h.saveUploadedImage(fileData, header.Filename)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		item.ID = fmt.Sprintf("img_%d", i+1)
		items = append(items, item)
	}

	// Use the first filename (without extension) as session name, with a
	// timestamp for uniqueness.
	baseFilename := strings.TrimSuffix(files[0].Filename, filepath.Ext(files[0].Filename))
	sessionID := fmt.Sprintf("%s_%d", baseFilename, time.Now().Unix())

	session := &models.GradingSession{
		ID:        sessionID,
		Images:    items,
		Provider:  h.cfg.Provider,
		CreatedAt: time.Now(),
	}
	h.sessions.Set(sessionID, session)

	response := map[string]any{
		"session_id": sessionID,
		"message":    fmt.Sprintf("Successfully uploaded %d image(s)", len(items)),
		"images":     len(items),
	}

	h.writeJSON(w, response)
}
