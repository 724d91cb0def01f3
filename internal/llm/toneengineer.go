package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/toneforge/toneforge-api/internal/tone"
)

// MaxEngineerAttempts bounds the act-observe-retry loop: the tone engineer
// calls the LLM, sanitizes its output, and — if sanitization produced
// warnings — retries with those warnings fed back as a repair prompt,
// up to this many total attempts. Grounded on the multi-turn pattern in
// original_source/tauri-app/src-tauri/src/act_mode.rs and planner_mode.rs.
const MaxEngineerAttempts = 3

const toneEngineerSystemPrompt = `You are a professional tone design assistant for a DAW mixer chain.
Given a free-text description of a desired tone, produce a JSON tone specification with five sections:
  - amp: canonical parameter name -> 0-1 value (e.g. "gain", "bass", "mid", "treble")
  - eq: frequency label (e.g. "800Hz", "2kHz") -> gain in dB, at most a handful of the most important bands
  - effects: a list of {"type": "...", "params": {...}} for any chorus/overdrive/distortion/compressor/noise_gate
  - reverb: canonical parameter name -> 0-1 value (e.g. "mix", "decay", "size")
  - delay: canonical parameter name -> 0-1 value (e.g. "mix", "feedback", "time")
Omit any section you don't need by returning an empty object or array for it.
Be conservative with extreme values. Respond only with the JSON object, no commentary.`

// ToneEngineer turns a free-text tone description into a SanitizedTone,
// supplementing the LLM stage spec.md §1 places out of scope behind the
// core's interfaces. It is grounded on original_source/parameter_ai.rs's
// prompt-building/response-parsing idiom, retargeted from REAPER actions
// to tone.RawTone so its output feeds tone.Sanitize directly.
type ToneEngineer struct {
	provider Provider
	model    string
}

// NewToneEngineer creates a tone engineer backed by provider, calling model
// for every generation.
func NewToneEngineer(provider Provider, model string) *ToneEngineer {
	return &ToneEngineer{provider: provider, model: model}
}

// EngineerResult is what one Engineer call returns: the sanitized tone, the
// number of attempts it took, and the raw model output from the winning
// attempt (kept for audit/history).
type EngineerResult struct {
	Sanitized tone.SanitizedTone
	Attempts  int
	RawOutput string
}

// Engineer runs the act-observe-retry loop: call the LLM, sanitize its
// output, and if sanitization produced warnings, retry with a repair
// prompt listing them, up to MaxEngineerAttempts total attempts. The last
// attempt's result is always returned even if warnings remain — the core
// never refuses to produce a best-effort tone.
func (e *ToneEngineer) Engineer(ctx context.Context, description string) (*EngineerResult, error) {
	var (
		lastSanitized tone.SanitizedTone
		lastRaw       string
		priorWarnings []string
	)

	for attempt := 1; attempt <= MaxEngineerAttempts; attempt++ {
		userPrompt := buildUserPrompt(description, priorWarnings)

		resp, err := e.provider.Generate(ctx, &GenerationRequest{
			Model:        e.model,
			SystemPrompt: toneEngineerSystemPrompt,
			InputArray: []map[string]any{
				{"role": "user", "content": userPrompt},
			},
			OutputSchema: &OutputSchema{
				Name:        "ToneSpec",
				Description: "Canonicalized tone specification",
				Schema:      GetToneSpecSchema(),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("tone engineer: attempt %d: generate: %w", attempt, err)
		}

		raw, err := parseRawTone(resp.OutputParsed)
		if err != nil {
			log.Printf("tone engineer: attempt %d produced unparseable output: %v", attempt, err)
			priorWarnings = []string{fmt.Sprintf("previous attempt's output was not valid JSON: %v", err)}
			continue
		}

		sanitized := tone.Sanitize(raw)
		lastSanitized = sanitized
		lastRaw = resp.RawOutput

		if len(sanitized.Warnings) == 0 {
			return &EngineerResult{Sanitized: sanitized, Attempts: attempt, RawOutput: lastRaw}, nil
		}

		log.Printf("tone engineer: attempt %d produced %d warning(s), retrying", attempt, len(sanitized.Warnings))
		priorWarnings = sanitized.Warnings
	}

	return &EngineerResult{Sanitized: lastSanitized, Attempts: MaxEngineerAttempts, RawOutput: lastRaw}, nil
}

// parseRawTone unmarshals the LLM's structured output into a tone.RawTone.
func parseRawTone(output json.RawMessage) (tone.RawTone, error) {
	var wire struct {
		Amp     map[string]float64 `json:"amp"`
		EQ      map[string]float64 `json:"eq"`
		Effects []tone.EffectSpec  `json:"effects"`
		Reverb  map[string]float64 `json:"reverb"`
		Delay   map[string]float64 `json:"delay"`
	}
	if err := json.Unmarshal(output, &wire); err != nil {
		return tone.RawTone{}, err
	}
	return tone.RawTone{
		Amp:     wire.Amp,
		EQ:      wire.EQ,
		Effects: wire.Effects,
		Reverb:  wire.Reverb,
		Delay:   wire.Delay,
	}, nil
}

// buildUserPrompt assembles the prompt for one attempt. On a retry,
// priorWarnings is fed back as a repair instruction, the act-observe-retry
// pattern from act_mode.rs translated to this domain's warnings instead of
// apply failures.
func buildUserPrompt(description string, priorWarnings []string) string {
	var b strings.Builder
	b.WriteString("=== TARGET TONE ===\n")
	b.WriteString("Description: ")
	b.WriteString(description)
	b.WriteString("\n")

	if len(priorWarnings) > 0 {
		b.WriteString("\n=== REPAIR NEEDED ===\n")
		b.WriteString("Your previous answer had the following problems. Produce a corrected tone spec that avoids them:\n")
		for _, w := range priorWarnings {
			b.WriteString("  - ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}

	return b.String()
}
