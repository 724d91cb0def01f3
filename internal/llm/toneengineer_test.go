package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineerSucceedsOnFirstAttempt(t *testing.T) {
	mock := &MockProvider{
		name: "mock",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			return &GenerationResponse{
				OutputParsed: json.RawMessage(`{"amp":{"gain":0.7},"eq":{},"effects":[],"reverb":{},"delay":{}}`),
			}, nil
		},
	}

	engineer := NewToneEngineer(mock, "gpt-5-mini")
	result, err := engineer.Engineer(context.Background(), "warm clean tone")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, result.Sanitized.Warnings)
	assert.InDelta(t, 0.7, result.Sanitized.Parameters.Amp["gain"], 1e-9)
}

func TestEngineerRetriesOnWarningsThenSucceeds(t *testing.T) {
	calls := 0
	mock := &MockProvider{
		name: "mock",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			calls++
			if calls == 1 {
				// Out-of-range value forces a clamp warning on the first pass.
				return &GenerationResponse{
					OutputParsed: json.RawMessage(`{"amp":{"gain":5.0},"eq":{},"effects":[],"reverb":{},"delay":{}}`),
				}, nil
			}
			return &GenerationResponse{
				OutputParsed: json.RawMessage(`{"amp":{"gain":0.7},"eq":{},"effects":[],"reverb":{},"delay":{}}`),
			}, nil
		},
	}

	engineer := NewToneEngineer(mock, "gpt-5-mini")
	result, err := engineer.Engineer(context.Background(), "warm clean tone")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, result.Attempts)
	assert.Empty(t, result.Sanitized.Warnings)
}

func TestEngineerGivesUpAfterMaxAttempts(t *testing.T) {
	mock := &MockProvider{
		name: "mock",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			return &GenerationResponse{
				OutputParsed: json.RawMessage(`{"amp":{"gain":5.0},"eq":{},"effects":[],"reverb":{},"delay":{}}`),
			}, nil
		},
	}

	engineer := NewToneEngineer(mock, "gpt-5-mini")
	result, err := engineer.Engineer(context.Background(), "warm clean tone")
	require.NoError(t, err)
	assert.Equal(t, MaxEngineerAttempts, result.Attempts)
	assert.NotEmpty(t, result.Sanitized.Warnings)
}

func TestEngineerPropagatesProviderError(t *testing.T) {
	mock := &MockProvider{
		name: "mock",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			return nil, assert.AnError
		},
	}

	engineer := NewToneEngineer(mock, "gpt-5-mini")
	_, err := engineer.Engineer(context.Background(), "anything")
	assert.Error(t, err)
}
