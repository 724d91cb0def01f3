package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
	geminiUserRole     = "user"
)

// GeminiProvider implements Provider using Google's Gemini API, used as
// the tone engineer backend when the configured model name starts with
// "gemini-".
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate calls Gemini's GenerateContent once with JSON-schema-constrained
// structured output.
func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	transaction := sentry.StartTransaction(ctx, "gemini.generate")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	contents := p.buildGeminiContents(request.InputArray)

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: request.SystemPrompt}}},
	}
	if request.OutputSchema != nil {
		config.ResponseMIMEType = mimeTypeJSON
		config.ResponseSchema = p.convertSchemaToGemini(request.OutputSchema.Schema)
	}

	span := transaction.StartChild("gemini.api_call")
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	response, err := p.processGeminiResponse(result)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	transaction.SetTag("success", "true")
	log.Printf("tone engineer: gemini generate completed in %v", time.Since(startTime))
	return response, nil
}

// GenerateStream implements streaming generation for Gemini.
func (p *GeminiProvider) GenerateStream(
	ctx context.Context, request *GenerationRequest, callback StreamCallback,
) (*GenerationResponse, error) {
	startTime := time.Now()
	transaction := sentry.StartTransaction(ctx, "gemini.generate_stream")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)
	transaction.SetTag("streaming", "true")

	contents := p.buildGeminiContents(request.InputArray)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: request.SystemPrompt}}},
	}
	if request.OutputSchema != nil {
		config.ResponseMIMEType = mimeTypeJSON
		config.ResponseSchema = p.convertSchemaToGemini(request.OutputSchema.Schema)
	}

	iter := p.client.Models.GenerateContentStream(ctx, request.Model, contents, config)

	response, err := p.processGeminiStream(iter, callback)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}
	transaction.SetTag("success", "true")
	log.Printf("tone engineer: gemini stream completed in %v", time.Since(startTime))
	return response, nil
}

func (p *GeminiProvider) buildGeminiContents(inputArray []map[string]any) []*genai.Content {
	var contents []*genai.Content
	for _, item := range inputArray {
		_, hasRole := item["role"].(string)
		content, hasContent := item["content"].(string)
		if !hasRole || !hasContent {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  geminiUserRole,
			Parts: []*genai.Part{{Text: content}},
		})
	}
	return contents
}

// convertSchemaToGemini translates the tone-spec JSON schema into Gemini's
// native Schema type. It walks only the shapes the tone schema actually
// uses (object/array/string/number), not arbitrary JSON Schema.
func (p *GeminiProvider) convertSchemaToGemini(schema map[string]any) *genai.Schema {
	return convertJSONSchemaToGemini(schema)
}

func convertJSONSchemaToGemini(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}
	typ, _ := schema["type"].(string)

	out := &genai.Schema{}
	switch typ {
	case "object":
		out.Type = genai.TypeObject
		if props, ok := schema["properties"].(map[string]any); ok {
			out.Properties = make(map[string]*genai.Schema, len(props))
			for name, propSchema := range props {
				if propMap, ok := propSchema.(map[string]any); ok {
					out.Properties[name] = convertJSONSchemaToGemini(propMap)
				}
			}
		}
		if required, ok := schema["required"].([]string); ok {
			out.Required = required
		}
	case "array":
		out.Type = genai.TypeArray
		if items, ok := schema["items"].(map[string]any); ok {
			out.Items = convertJSONSchemaToGemini(items)
		}
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}
	return out
}

func (p *GeminiProvider) processGeminiResponse(result *genai.GenerateContentResponse) (*GenerationResponse, error) {
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no output in gemini response")
	}
	textOutput := result.Candidates[0].Content.Parts[0].Text
	if textOutput == "" {
		return nil, fmt.Errorf("gemini response did not include any output text")
	}
	return &GenerationResponse{
		OutputParsed: []byte(textOutput),
		RawOutput:    textOutput,
		Usage:        result.UsageMetadata,
	}, nil
}

func (p *GeminiProvider) processGeminiStream(
	iter func(yield func(*genai.GenerateContentResponse, error) bool),
	callback StreamCallback,
) (*GenerationResponse, error) {
	var accumulatedText string
	var finalUsage *genai.GenerateContentResponseUsageMetadata

	_ = callback(StreamEvent{Type: "output_started", Message: "generating tone mapping"})

	for chunk, err := range iter {
		if err != nil {
			return nil, fmt.Errorf("gemini stream error: %w", err)
		}
		if len(chunk.Candidates) > 0 && len(chunk.Candidates[0].Content.Parts) > 0 {
			accumulatedText += chunk.Candidates[0].Content.Parts[0].Text
		}
		if chunk.UsageMetadata != nil {
			finalUsage = chunk.UsageMetadata
		}
	}

	if accumulatedText == "" {
		return nil, fmt.Errorf("no output received from gemini stream")
	}

	_ = callback(StreamEvent{Type: "completed", Message: "tone mapping generated"})
	return &GenerationResponse{
		OutputParsed: []byte(accumulatedText),
		RawOutput:    accumulatedText,
		Usage:        finalUsage,
	}, nil
}
