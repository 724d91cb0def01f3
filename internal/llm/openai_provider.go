package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const (
	developerRole = "developer"

	providerNameOpenAI = "openai"
)

// OpenAIProvider implements Provider using OpenAI's Responses API with
// structured JSON-schema output — the tone engineer never needs the
// model to emit free text it would have to scrape.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: &client}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate calls the Responses API once and returns its structured output.
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("tone engineer: openai generate started (model=%s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "openai.generate")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := p.buildRequestParams(request)

	span := transaction.StartChild("openai.api_call")
	resp, err := p.client.Responses.New(ctx, params)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	result, err := p.processResponse(resp)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}

	transaction.SetTag("success", "true")
	log.Printf("tone engineer: openai generate completed in %v", time.Since(startTime))
	return result, nil
}

// GenerateStream is Generate with progress events over callback.
func (p *OpenAIProvider) GenerateStream(
	ctx context.Context, request *GenerationRequest, callback StreamCallback,
) (*GenerationResponse, error) {
	startTime := time.Now()
	transaction := sentry.StartTransaction(ctx, "openai.generate_stream")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)
	transaction.SetTag("streaming", "true")

	params := p.buildRequestParams(request)
	stream := p.client.Responses.NewStreaming(ctx, params)

	result, err := p.processStream(stream, callback, startTime)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}
	transaction.SetTag("success", "true")
	return result, nil
}

func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) responses.ResponseNewParams {
	inputItems := responses.ResponseInputParam{}
	for _, item := range request.InputArray {
		role, hasRole := item["role"].(string)
		content, hasContent := item["content"].(string)
		if !hasRole || !hasContent {
			continue
		}
		roleEnum := responses.EasyInputMessageRoleUser
		if role == developerRole {
			roleEnum = responses.EasyInputMessageRoleDeveloper
		}
		inputItems = append(inputItems, responses.ResponseInputItemParamOfMessage(content, roleEnum))
	}

	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems,
		},
		Instructions:      openai.String(request.SystemPrompt),
		ParallelToolCalls: openai.Bool(false),
		Reasoning: shared.ReasoningParam{
			Effort: responses.ReasoningEffortMedium,
		},
	}

	if request.OutputSchema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(
				request.OutputSchema.Name,
				request.OutputSchema.Schema,
			),
		}
	}

	return params
}

func (p *OpenAIProvider) processResponse(resp *responses.Response) (*GenerationResponse, error) {
	textOutput := resp.OutputText()
	log.Printf("tone engineer: openai response length=%d tokens=%d", len(textOutput), resp.Usage.TotalTokens)

	if textOutput == "" {
		return nil, fmt.Errorf("openai response did not include any output text")
	}

	return &GenerationResponse{
		OutputParsed: []byte(textOutput),
		RawOutput:    textOutput,
		Usage:        resp.Usage,
	}, nil
}

func (p *OpenAIProvider) processStream(
	stream *ssestream.Stream[responses.ResponseStreamEventUnion],
	callback StreamCallback,
	startTime time.Time,
) (*GenerationResponse, error) {
	var accumulatedText string
	var usage any
	eventCount := 0

	_ = callback(StreamEvent{Type: "output_started", Message: "generating tone mapping"})

	for stream.Next() {
		event := stream.Current()
		eventCount++

		if eventCount%10 == 0 {
			elapsed := time.Since(startTime)
			_ = callback(StreamEvent{
				Type: "heartbeat",
				Data: map[string]any{"events_received": eventCount, "elapsed_seconds": int(elapsed.Seconds())},
			})
		}

		switch event.Type {
		case "response.output_text.delta":
			if deltaBytes, err := json.Marshal(event.Delta); err == nil {
				var deltaMap map[string]string
				if json.Unmarshal(deltaBytes, &deltaMap) == nil {
					accumulatedText += deltaMap["OfString"]
				}
			}
		case "response.completed":
			usage = event.Response.Usage
		}
	}

	if err := stream.Err(); err != nil {
		_ = callback(StreamEvent{Type: "error", Message: err.Error()})
		return nil, fmt.Errorf("openai stream error: %w", err)
	}

	if accumulatedText == "" {
		return nil, fmt.Errorf("no output received from stream")
	}

	_ = callback(StreamEvent{Type: "completed", Message: "tone mapping generated"})
	return &GenerationResponse{
		OutputParsed: []byte(accumulatedText),
		RawOutput:    accumulatedText,
		Usage:        usage,
	}, nil
}

