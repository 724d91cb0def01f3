package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test implementation of the Provider interface.
type MockProvider struct {
	name               string
	generateFunc       func(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)
	generateStreamFunc func(ctx context.Context, request *GenerationRequest, callback StreamCallback) (*GenerationResponse, error)
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, request)
	}
	return &GenerationResponse{}, nil
}

func (m *MockProvider) GenerateStream(
	ctx context.Context, request *GenerationRequest, callback StreamCallback,
) (*GenerationResponse, error) {
	if m.generateStreamFunc != nil {
		return m.generateStreamFunc(ctx, request, callback)
	}
	return &GenerationResponse{}, nil
}

func TestProviderInterface(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	assert.Equal(t, "mock", mock.Name())
}

func TestGenerationRequest(t *testing.T) {
	req := &GenerationRequest{
		Model:        "test-model",
		SystemPrompt: "test prompt",
		InputArray: []map[string]any{
			{"role": "user", "content": "test"},
		},
		OutputSchema: &OutputSchema{
			Name:        "ToneSpec",
			Description: "Test schema",
			Schema:      GetToneSpecSchema(),
		},
	}

	assert.Equal(t, "test-model", req.Model)
	assert.NotNil(t, req.OutputSchema)
}

func TestGenerationResponse(t *testing.T) {
	resp := &GenerationResponse{
		OutputParsed: json.RawMessage(`{"amp":{"gain":-3.0}}`),
		RawOutput:    `{"amp":{"gain":-3.0}}`,
	}

	var decoded map[string]map[string]float64
	require.NoError(t, json.Unmarshal(resp.OutputParsed, &decoded))
	assert.InDelta(t, -3.0, decoded["amp"]["gain"], 1e-9)
}

func TestMockProviderGenerate(t *testing.T) {
	callCount := 0
	mock := &MockProvider{
		name: "test",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			callCount++
			require.Equal(t, "test-model", request.Model)
			return &GenerationResponse{
				OutputParsed: json.RawMessage(`{"amp":{},"eq":{},"effects":[],"reverb":{},"delay":{}}`),
			}, nil
		},
	}

	req := &GenerationRequest{Model: "test-model"}

	resp, err := mock.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 1, callCount)
	assert.NotEmpty(t, resp.OutputParsed)
}

func TestStreamCallback(t *testing.T) {
	callCount := 0
	callback := func(event StreamEvent) error {
		callCount++
		assert.NotEmpty(t, event.Type)
		return nil
	}

	err := callback(StreamEvent{Type: "test", Message: "test message"})
	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
}
