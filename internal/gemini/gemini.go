package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/LandyLee-gdut/essay-grader/internal/providers"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct{}

// New returns a new Gemini provider
func New() *Gemini {
	return &Gemini{}
}

// StreamChat issues one streaming generate-content request against Gemini,
// invoking onDelta for every text part in the response stream.
func (g *Gemini) StreamChat(ctx context.Context, req providers.Request, onDelta func(string)) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.Model)
	model.SetTemperature(float32(req.Temperature))
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	parts := []genai.Part{genai.Text(req.Prompt)}
	for _, img := range req.Images {
		parts = append(parts, genai.ImageData(imageFormat(img.MIME), img.Data))
	}

	iter := model.GenerateContentStream(ctx, parts...)
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to generate content: %w", err)
		}

		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if txt, ok := part.(genai.Text); ok && txt != "" {
					onDelta(string(txt))
				}
			}
		}
	}
}

// imageFormat maps a MIME type like "image/png" to the bare format name
// genai.ImageData expects.
func imageFormat(mime string) string {
	format := strings.TrimPrefix(strings.ToLower(mime), "image/")
	if format == "" {
		return "jpeg"
	}
	return format
}
