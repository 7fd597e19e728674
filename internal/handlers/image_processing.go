package handlers

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LandyLee-gdut/essay-grader/internal/models"
)

// saveUploadedImage writes image data under the uploads directory, named by
// its content MD5 so re-uploading the same page is idempotent.
func (h *Handler) saveUploadedImage(fileData []byte, filename string) (models.ImageItem, error) {
	sum := md5.Sum(fileData)
	ext := strings.ToLower(filepath.Ext(filename))
	imageFilename := hex.EncodeToString(sum[:]) + ext
	imageFilePath := filepath.Join(h.cfg.UploadsDir, imageFilename)

	if err := os.WriteFile(imageFilePath, fileData, 0644); err != nil {
		return models.ImageItem{}, fmt.Errorf("failed to save image: %w", err)
	}

	slog.Info("Image saved", "filename", imageFilename)

	width, height, err := getImageDimensions(imageFilePath)
	if err != nil {
		slog.Warn("Failed to get image dimensions", "error", err)
		width, height = 0, 0
	}

	return models.ImageItem{
		ImagePath:   imageFilePath,
		ImageURL:    "/static/uploads/" + imageFilename,
		ImageWidth:  width,
		ImageHeight: height,
	}, nil
}

// createSessionFromURL downloads an essay page image and starts a new
// grading session holding it.
func (h *Handler) createSessionFromURL(imageURL string) (string, error) {
	imageData, err := h.downloadImageFromURL(imageURL)
	if err != nil {
		return "", err
	}

	// Extract filename from URL
	parts := strings.Split(imageURL, "/")
	filename := parts[len(parts)-1]
	if filename == "" {
		filename = "page.jpg"
	}

	if err := h.ensureUploadsDir(); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	item, err := h.saveUploadedImage(imageData, filename)
	if err != nil {
		return "", err
	}
	item.ID = "img_1"

	sessionID := fmt.Sprintf("%s_%d", strings.TrimSuffix(filename, filepath.Ext(filename)), time.Now().Unix())
	session := &models.GradingSession{
		ID:        sessionID,
		Images:    []models.ImageItem{item},
		Provider:  h.cfg.Provider,
		CreatedAt: time.Now(),
	}
	h.sessions.Set(sessionID, session)

	slog.Info("Session created from URL", "session_id", sessionID, "url", imageURL)
	return sessionID, nil
}

func (h *Handler) downloadImageFromURL(imageURL string) ([]byte, error) {
	resp, err := http.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, h.cfg.MaxFileSizeBytes()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(imageData)) > h.cfg.MaxFileSizeBytes() {
		return nil, fmt.Errorf("image too large (max %dMB)", h.cfg.MaxFileSizeMB)
	}

	return imageData, nil
}

func getImageDimensions(imagePath string) (int, int, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	img, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}

	return img.Width, img.Height, nil
}
