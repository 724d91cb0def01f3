package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider(t *testing.T) {
	provider := NewOpenAIProvider("test-api-key")
	require.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())
	assert.NotNil(t, provider.client)
}

func TestOpenAIProvider_BuildRequestParams(t *testing.T) {
	provider := NewOpenAIProvider("test-key")

	tests := []struct {
		name    string
		request *GenerationRequest
		checks  func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest)
	}{
		{
			name: "basic request with user message",
			request: &GenerationRequest{
				Model:        "gpt-5-mini",
				SystemPrompt: "test system prompt",
				InputArray: []map[string]any{
					{"role": "user", "content": "test content"},
				},
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.Equal(t, "gpt-5-mini", params.Model)
				assert.NotNil(t, params.Instructions.Value)
				assert.Equal(t, "test system prompt", params.Instructions.Value)
			},
		},
		{
			name: "request with developer role",
			request: &GenerationRequest{
				Model:        "gpt-5-mini",
				SystemPrompt: "test prompt",
				InputArray: []map[string]any{
					{"role": "developer", "content": "dev message"},
				},
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.Equal(t, "gpt-5-mini", params.Model)
			},
		},
		{
			name: "request with output schema",
			request: &GenerationRequest{
				Model:        "gpt-5-mini",
				SystemPrompt: "test prompt",
				InputArray: []map[string]any{
					{"role": "user", "content": "test"},
				},
				OutputSchema: &OutputSchema{
					Name:        "ToneSpec",
					Description: "Test description",
					Schema:      GetToneSpecSchema(),
				},
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.NotNil(t, params.Text.Format)
			},
		},
		{
			name: "request with no input messages produces empty item list",
			request: &GenerationRequest{
				Model:        "gpt-5-mini",
				SystemPrompt: "test prompt",
				InputArray:   []map[string]any{{"role": "user"}},
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.Equal(t, "gpt-5-mini", params.Model)
				assert.Empty(t, params.Input.OfInputItemList)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checks(t, provider, tt.request)
		})
	}
}

func TestOpenAIProvider_ReasoningEffortIsAlwaysSet(t *testing.T) {
	provider := NewOpenAIProvider("test-key")
	request := &GenerationRequest{
		Model:        "gpt-5-mini",
		SystemPrompt: "test",
		InputArray: []map[string]any{
			{"role": "user", "content": "test"},
		},
	}
	params := provider.buildRequestParams(request)
	assert.NotNil(t, params.Reasoning.Effort)
}
