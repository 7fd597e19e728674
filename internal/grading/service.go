package grading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/LandyLee-gdut/essay-grader/internal/config"
	"github.com/LandyLee-gdut/essay-grader/internal/domain"
	"github.com/LandyLee-gdut/essay-grader/internal/gemini"
	"github.com/LandyLee-gdut/essay-grader/internal/ollama"
	"github.com/LandyLee-gdut/essay-grader/internal/openai"
	"github.com/LandyLee-gdut/essay-grader/internal/providers"
)

// systemPersona is the fixed system role for grading requests.
const systemPersona = "You are an experienced language teacher who grades student essays. " +
	"Apply the provided grading rubric and produce detailed, constructive feedback."

// Service grades extracted essay text against an external rubric template.
type Service struct {
	cfg      config.Config
	provider providers.Provider
}

// NewService creates a grading service using the provider named in the
// configuration.
func NewService(cfg config.Config) (*Service, error) {
	provider, err := resolveProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, provider: provider}, nil
}

// NewServiceWithProvider creates a grading service with an explicit provider.
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

// StreamGrade runs one streaming grading request for the essay body. The
// cumulative-yield contract matches extraction: onTotal receives the full
// grading text so far after every delta, and the final text is returned.
func (s *Service) StreamGrade(ctx context.Context, body string, onTotal func(total string)) (string, error) {
	rubric, err := s.loadRubric()
	if err != nil {
		return "", err
	}

	req := providers.Request{
		Model:       s.model(),
		System:      systemPersona,
		Prompt:      rubric + "\nThe essay is as follows:\n" + body,
		Temperature: 1.0,
	}

	var total string
	err = s.provider.StreamChat(ctx, req, func(delta string) {
		total += delta
		if onTotal != nil {
			onTotal(total)
		}
	})
	if err != nil {
		return "", domain.GatewayError("essay grading failed", err)
	}

	slog.Info("Graded essay", "length", len(total))
	return total, nil
}

// loadRubric reads the grading rubric template from disk. A missing template
// is a configuration problem and aborts before any grading call is made.
func (s *Service) loadRubric() (string, error) {
	data, err := os.ReadFile(s.cfg.RubricPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ConfigurationError("grading rubric template not found: "+s.cfg.RubricPath, err)
		}
		return "", domain.ConfigurationError("failed to read grading rubric template", err)
	}
	return string(data), nil
}

func (s *Service) model() string {
	if s.cfg.RatingModel != "" {
		return s.cfg.RatingModel
	}
	switch s.cfg.Provider {
	case "ollama":
		return "llama3.1"
	case "gemini":
		return "gemini-1.5-pro"
	default:
		return "Qwen/Qwen2.5-32B-Instruct"
	}
}
