package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/LandyLee-gdut/essay-grader/internal/providers"
)

// Ollama is a provider for a local Ollama server.
type Ollama struct{}

// New returns a new Ollama provider
func New() *Ollama {
	return &Ollama{}
}

// StreamChat issues one streaming chat request against Ollama's /api/chat
// endpoint. Responses arrive as newline-delimited JSON objects.
func (o *Ollama) StreamChat(ctx context.Context, req providers.Request, onDelta func(string)) error {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = os.Getenv("OLLAMA_HOST")
	}
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	url := ollamaURL + "/api/chat"

	var messages []map[string]interface{}
	if req.System != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": req.System,
		})
	}

	userMessage := map[string]interface{}{
		"role":    "user",
		"content": req.Prompt,
	}
	if len(req.Images) > 0 {
		images := make([]string, 0, len(req.Images))
		for _, img := range req.Images {
			images = append(images, base64.StdEncoding.EncodeToString(img.Data))
		}
		userMessage["images"] = images
	}
	messages = append(messages, userMessage)

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":    req.Model,
		"messages": messages,
		"stream":   true,
		"options": map[string]interface{}{
			"temperature": req.Temperature,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var response struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			Done bool `json:"done"`
		}
		if err := json.Unmarshal(line, &response); err != nil {
			return fmt.Errorf("failed to decode response line: %w", err)
		}

		if response.Message.Content != "" {
			onDelta(response.Message.Content)
		}
		if response.Done {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream aborted: %w", err)
	}
	return nil
}
