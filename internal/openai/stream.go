package openai

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// chunk is one server-sent event payload in a streaming chat response.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// parseStream reads the SSE body of a streaming chat completion, invoking
// onDelta for each non-empty content delta until the "[DONE]" marker or EOF.
func parseStream(body io.Reader, onDelta func(string)) error {
	scanner := bufio.NewScanner(body)

	// Deltas are small, but some endpoints batch several tokens per event.
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		line := scanner.Text()

		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		if data == "[DONE]" {
			return nil
		}

		var c chunk
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			// Skip keep-alive and other non-JSON event lines.
			continue
		}

		if len(c.Choices) == 0 {
			continue
		}
		if content := c.Choices[0].Delta.Content; content != "" {
			onDelta(content)
		}
		if c.Choices[0].FinishReason != "" {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream aborted: %w", err)
	}
	return nil
}
