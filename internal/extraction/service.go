package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/LandyLee-gdut/essay-grader/internal/config"
	"github.com/LandyLee-gdut/essay-grader/internal/domain"
	"github.com/LandyLee-gdut/essay-grader/internal/gemini"
	"github.com/LandyLee-gdut/essay-grader/internal/ollama"
	"github.com/LandyLee-gdut/essay-grader/internal/openai"
	"github.com/LandyLee-gdut/essay-grader/internal/providers"
)

// Service extracts essay text from photographed pages using a vision LLM.
type Service struct {
	cfg      config.Config
	provider providers.Provider
}

// NewService creates an extraction service using the provider named in the
// configuration.
func NewService(cfg config.Config) (*Service, error) {
	provider, err := resolveProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, provider: provider}, nil
}

// NewServiceWithProvider creates an extraction service with an explicit
// provider.
func NewServiceWithProvider(cfg config.Config, provider providers.Provider) *Service {
	return &Service{cfg: cfg, provider: provider}
}

func resolveProvider(cfg config.Config) (providers.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(cfg.APIBaseURL, cfg.APIKey), nil
	case "ollama":
		return ollama.New(), nil
	case "gemini":
		return gemini.New(), nil
	default:
		return nil, domain.ConfigurationError(fmt.Sprintf("unsupported provider: %s", cfg.Provider), nil)
	}
}

// StreamExtract runs one streaming vision extraction over the full batch of
// page images. onTotal is called after every content delta with the full
// text accumulated so far, never the delta itself, so consumers can redraw
// from the latest value alone. The final accumulated text is returned.
func (s *Service) StreamExtract(ctx context.Context, imagePaths []string, onTotal func(total string)) (string, error) {
	images := make([]providers.Image, 0, len(imagePaths))
	for _, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", domain.GatewayError(fmt.Sprintf("failed to read image: %s", path), err)
		}
		images = append(images, providers.Image{Data: data, MIME: mimeForPath(path)})
	}

	req := providers.Request{
		Model:       s.model(),
		Prompt:      buildExtractionPrompt(),
		Images:      images,
		Temperature: 0.0,
	}

	var total string
	err := s.provider.StreamChat(ctx, req, func(delta string) {
		total += delta
		if onTotal != nil {
			onTotal(total)
		}
	})
	if err != nil {
		return "", domain.GatewayError("text extraction failed", err)
	}

	slog.Info("Extracted essay text", "images", len(imagePaths), "length", len(total))
	return total, nil
}

func (s *Service) model() string {
	if s.cfg.ExtractionModel != "" {
		return s.cfg.ExtractionModel
	}
	switch s.cfg.Provider {
	case "ollama":
		return "llama3.2-vision"
	case "gemini":
		return "gemini-1.5-flash"
	default:
		return "Qwen/Qwen2.5-VL-7B-Instruct"
	}
}

// buildExtractionPrompt creates the fixed transcription instruction.
func buildExtractionPrompt() string {
	return `You are transcribing a photographed handwritten school essay.

Extract the essay title and the essay body from the attached page images.

INSTRUCTIONS:
1. Ignore red correction marks, teacher annotations, and any scribbles - transcribe only the student's essay text
2. The first line of your reply must be the essay title, with the essay body following it
3. Do not include anything else in your reply
4. Preserve the paragraph structure of the essay exactly as written
5. Do not fix spelling errors - transcribe the text as the student wrote it`
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
