package llm

const (
	dbMin = -12.0
	dbMax = 12.0
)

// unitMapSchema describes a flat map of canonical parameter name -> 0-1
// unit value, the shape shared by amp/reverb/delay sections.
func unitMapSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"description":          "Canonical parameter name to normalized value in 0-1.",
		"additionalProperties": map[string]any{"type": "number"},
	}
}

func eqMapSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"description":          "Frequency label (e.g. '800Hz', '2kHz') to gain in dB, capped at top points by magnitude.",
		"additionalProperties": map[string]any{"type": "number", "minimum": dbMin, "maximum": dbMax},
	}
}

func effectsArraySchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{
					"type":        "string",
					"description": "Effect type, e.g. 'chorus', 'overdrive', 'distortion', 'compressor', 'noise_gate'.",
				},
				"params": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "number"},
				},
			},
			"required":             []string{"type", "params"},
			"additionalProperties": false,
		},
	}
}

// GetToneSpecSchema returns the JSON schema the tone engineer asks the LLM
// provider to constrain its structured output to. The shape mirrors
// tone.RawTone so the response can be fed straight into tone.Sanitize.
func GetToneSpecSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amp":     unitMapSchema(),
			"eq":      eqMapSchema(),
			"effects": effectsArraySchema(),
			"reverb":  unitMapSchema(),
			"delay":   unitMapSchema(),
		},
		"required":             []string{"amp", "eq", "effects", "reverb", "delay"},
		"additionalProperties": false,
	}
}
