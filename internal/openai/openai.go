package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/LandyLee-gdut/essay-grader/internal/providers"
)

// Client talks to any OpenAI-compatible chat completions endpoint
// (api.openai.com, ModelScope, OpenRouter, ...). All requests are issued in
// streaming mode.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New returns a client for the given endpoint. baseURL is the API root,
// e.g. "https://api-inference.modelscope.cn/v1/".
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// StreamChat issues one streaming chat completion request and invokes
// onDelta for every content delta in the response stream.
func (c *Client) StreamChat(ctx context.Context, req providers.Request, onDelta func(string)) error {
	if c.apiKey == "" {
		return fmt.Errorf("MODELSCOPE_API_KEY environment variable not set")
	}

	requestBody, err := json.Marshal(c.buildPayload(req))
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	return parseStream(resp.Body, onDelta)
}

// buildPayload constructs the chat completions request. Messages with image
// attachments use the multi-part content format with data-URI image parts.
func (c *Client) buildPayload(req providers.Request) map[string]interface{} {
	var messages []map[string]interface{}

	if req.System != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": req.System,
		})
	}

	if len(req.Images) == 0 {
		messages = append(messages, map[string]interface{}{
			"role":    "user",
			"content": req.Prompt,
		})
	} else {
		parts := []map[string]interface{}{
			{
				"type": "text",
				"text": req.Prompt,
			},
		}
		for _, img := range req.Images {
			mime := img.MIME
			if mime == "" {
				mime = "image/jpeg"
			}
			parts = append(parts, map[string]interface{}{
				"type": "image_url",
				"image_url": map[string]string{
					"url": "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
				},
			})
		}
		messages = append(messages, map[string]interface{}{
			"role":    "user",
			"content": parts,
		})
	}

	return map[string]interface{}{
		"model":       req.Model,
		"messages":    messages,
		"stream":      true,
		"temperature": req.Temperature,
	}
}
