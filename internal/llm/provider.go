package llm

import (
	"context"
	"encoding/json"
)

// Provider defines the interface for LLM providers.
// All providers MUST support structured output (JSON Schema) so the tone
// engineer can unmarshal the response directly instead of scraping prose.
type Provider interface {
	// Generate calls the model once and returns its structured output.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// GenerateStream is Generate with progress events delivered to callback.
	GenerateStream(ctx context.Context, request *GenerationRequest, callback StreamCallback) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini").
	Name() string
}

// GenerationRequest contains all parameters needed for one turn of the
// tone engineer's act-observe-retry loop.
type GenerationRequest struct {
	Model        string
	InputArray   []map[string]any
	SystemPrompt string
	// OutputSchema is REQUIRED for reliable JSON parsing.
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure.
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any
}

// GenerationResponse contains the result from the LLM.
type GenerationResponse struct {
	OutputParsed json.RawMessage `json:"output_parsed"`
	RawOutput    string          `json:"-"`
	Usage        any             `json:"usage"`
}

// StreamCallback is called for each streaming event.
type StreamCallback func(event StreamEvent) error

// StreamEvent represents a server-sent event during streaming.
type StreamEvent struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
