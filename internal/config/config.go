package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the environment-driven settings for the grader.
type Config struct {
	// APIBaseURL is the OpenAI-compatible chat completions endpoint.
	APIBaseURL string
	// APIKey is the bearer token for the inference endpoint.
	APIKey string
	// Provider selects the LLM backend: "openai" (any OpenAI-compatible
	// endpoint, including ModelScope), "ollama", or "gemini".
	Provider string
	// ExtractionModel is the vision model used to read essay images.
	ExtractionModel string
	// RatingModel is the text model used to grade the extracted essay.
	RatingModel string

	TextsDir    string
	RatesDir    string
	UploadsDir  string
	HistoryPath string
	RubricPath  string

	MaxFileSizeMB     int64
	AllowedExtensions []string
}

// Load reads configuration from the environment, falling back to the
// defaults the grader shipped with.
func Load() Config {
	return Config{
		APIBaseURL:        getenv("MODELSCOPE_API_ENDPOINT", "https://api-inference.modelscope.cn/v1/"),
		APIKey:            os.Getenv("MODELSCOPE_API_KEY"),
		Provider:          getenv("GRADER_PROVIDER", "openai"),
		ExtractionModel:   getenv("EXTRACTION_MODEL", "Qwen/Qwen2.5-VL-7B-Instruct"),
		RatingModel:       getenv("RATING_MODEL", "Qwen/Qwen2.5-32B-Instruct"),
		TextsDir:          getenv("GRADER_TEXTS_DIR", "texts"),
		RatesDir:          getenv("GRADER_RATES_DIR", "rates"),
		UploadsDir:        getenv("GRADER_UPLOADS_DIR", "uploads"),
		HistoryPath:       getenv("GRADER_HISTORY_PATH", "history.json"),
		RubricPath:        getenv("GRADER_RUBRIC_PATH", "prompt/prompt.txt"),
		MaxFileSizeMB:     getenvInt64("GRADER_MAX_FILE_SIZE_MB", 5),
		AllowedExtensions: getenvList("GRADER_ALLOWED_EXTENSIONS", []string{".jpg", ".jpeg", ".png"}),
	}
}

// MaxFileSizeBytes returns the upload size ceiling in bytes.
func (c Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// ExtensionAllowed reports whether ext (including the leading dot) is an
// accepted image extension. The comparison is case-insensitive.
func (c Config) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt64(k string, fallback int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getenvList(k string, fallback []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
