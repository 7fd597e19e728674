package providers

import (
	"context"
)

// Image is one image attachment for a vision request.
type Image struct {
	Data []byte
	MIME string
}

// Request represents one streaming chat request to an LLM provider.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Images      []Image
	Temperature float64
}

// Provider defines the interface for a streaming LLM provider. StreamChat
// issues one chat request and calls onDelta once per incoming content delta,
// in order, until the stream is exhausted. onDelta is never called after
// StreamChat returns.
type Provider interface {
	StreamChat(ctx context.Context, req Request, onDelta func(delta string)) error
}
