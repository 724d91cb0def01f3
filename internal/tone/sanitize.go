package tone

import (
	"fmt"
	"math"
	"sort"
)

const (
	maxUnitMapKeys     = 32
	maxEQPointsCap     = 16
	maxEQDB            = 12.0
	maxEffects         = 5
	maxParamsPerEffect = 24
)

// RawTone is the pre-canonical tone specification as produced upstream by
// the tone engineer, before sanitization. Its shape mirrors ToneSpec but
// carries no invariants: keys may be unknown, values may be non-finite or
// out of range, and lists may be arbitrarily long.
type RawTone struct {
	Amp     map[string]float64
	EQ      map[string]float64
	Effects []EffectSpec
	Reverb  map[string]float64
	Delay   map[string]float64
}

// SanitizedTone is the result of Sanitize: a ToneSpec guaranteed to satisfy
// the Data Model invariants, plus the warnings accumulated while getting
// there.
type SanitizedTone struct {
	Parameters ToneSpec
	Warnings   []string
}

// Sanitize canonicalizes keys and effect names, clamps numeric values,
// drops what can't be salvaged, and caps list sizes so downstream mapping
// stays deterministic. It never mutates its input.
func Sanitize(raw RawTone) SanitizedTone {
	var warnings []string

	amp := sanitizeUnitMap(raw.Amp, "amp", &warnings)
	reverb := sanitizeUnitMap(raw.Reverb, "reverb", &warnings)
	delay := sanitizeUnitMap(raw.Delay, "delay", &warnings)
	eq := sanitizeEQMap(raw.EQ, &warnings)
	effects := sanitizeEffects(raw.Effects, &warnings)

	return SanitizedTone{
		Parameters: ToneSpec{
			Amp:     amp,
			EQ:      eq,
			Effects: effects,
			Reverb:  reverb,
			Delay:   delay,
		},
		Warnings: warnings,
	}
}

func sanitizeEffects(effects []EffectSpec, warnings *[]string) []EffectSpec {
	if len(effects) > maxEffects {
		*warnings = append(*warnings, fmt.Sprintf(
			"effects: %d entries provided; keeping first %d", len(effects), maxEffects))
		effects = effects[:maxEffects]
	}

	out := make([]EffectSpec, 0, len(effects))
	for _, eff := range effects {
		original := eff.Type
		canonType := canonicalEffectType(original)
		if canonType != original {
			*warnings = append(*warnings, fmt.Sprintf(
				"effects: normalized effect_type '%s' -> '%s'", original, canonType))
		}

		group := "effect:" + canonType
		params := sanitizeUnitMap(eff.Params, group, warnings)
		if len(params) == 0 {
			continue
		}
		out = append(out, EffectSpec{Type: canonType, Params: params})
	}

	if dropped := len(effects) - len(out); dropped > 0 {
		*warnings = append(*warnings, fmt.Sprintf(
			"effects: dropped %d empty effect(s) after sanitization", dropped))
	}

	return out
}

// sanitizeUnitMap canonicalizes keys within group, clamps values to [0,1],
// drops non-finite values, and caps the result at maxUnitMapKeys entries
// (keeping first-inserted order from the input map's iteration).
func sanitizeUnitMap(in map[string]float64, group string, warnings *[]string) map[string]float64 {
	out := make(map[string]float64)
	strict := isStrictGroup(group)

	for k, v := range in {
		if !isFinite(v) {
			*warnings = append(*warnings, fmt.Sprintf("%s: dropped non-finite value for '%s'", group, k))
			continue
		}

		canonicalKey, known := canonicalParamKey(group, k)
		if !known {
			if strict {
				*warnings = append(*warnings, fmt.Sprintf(
					"%s: dropped unsupported key '%s' (strict vocabulary)", group, k))
				continue
			}
			canonicalKey = k
		}

		clamped := clampFloat(v, 0, 1)
		if math.Abs(clamped-v) > 1e-9 {
			*warnings = append(*warnings, fmt.Sprintf(
				"%s: clamped '%s' from %.3f to %.3f", group, canonicalKey, v, clamped))
		}

		if len(out) < maxUnitMapKeys {
			out[canonicalKey] = clamped
		}
	}

	if len(out) >= maxUnitMapKeys && len(in) > maxUnitMapKeys {
		*warnings = append(*warnings, fmt.Sprintf("%s: too many keys; capped to %d", group, maxUnitMapKeys))
	}

	return out
}

func isStrictGroup(group string) bool {
	if group == "delay" || group == "reverb" {
		return true
	}
	return len(group) >= 7 && group[:7] == "effect:"
}

func sanitizeEQMap(in map[string]float64, warnings *[]string) map[string]float64 {
	type pair struct {
		key string
		db  float64
	}
	var pairs []pair

	for k, v := range in {
		if !isFinite(v) {
			*warnings = append(*warnings, fmt.Sprintf("eq: dropped non-finite value for '%s'", k))
			continue
		}
		clamped := clampFloat(v, -maxEQDB, maxEQDB)
		if math.Abs(clamped-v) > 1e-9 {
			*warnings = append(*warnings, fmt.Sprintf("eq: clamped '%s' from %+.1f dB to %+.1f dB", k, v, clamped))
		}
		pairs = append(pairs, pair{k, clamped})
	}

	if len(pairs) <= maxEQPointsCap {
		out := make(map[string]float64, len(pairs))
		for _, p := range pairs {
			out[p.key] = p.db
		}
		return out
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].db) > math.Abs(pairs[j].db)
	})
	pairs = pairs[:maxEQPointsCap]

	*warnings = append(*warnings, fmt.Sprintf("eq: too many points; keeping top %d by |dB|", maxEQPointsCap))

	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		out[p.key] = p.db
	}
	return out
}

func canonicalEffectType(effectType string) string {
	t := Normalize(effectType)
	if canon, ok := effectTypeCanonical[t]; ok {
		return canon
	}
	return effectType
}

// canonicalParamKey resolves key within group to its canonical form. The
// second return value reports whether the key was recognized at all; for
// non-strict groups (amp) the caller falls back to keeping the original
// key when false.
func canonicalParamKey(group, key string) (string, bool) {
	k := Normalize(key)

	if group == "amp" {
		canon, ok := ampSynonymToCanonical[k]
		return canon, ok
	}

	if len(group) >= 7 && group[:7] == "effect:" {
		effectType := group[7:]
		if vocab := effectParamSynonymToCanonical(effectType); vocab != nil {
			canon, ok := vocab[k]
			return canon, ok
		}
		canon, ok := genericEffectParamCanonical[k]
		return canon, ok
	}

	if group == "reverb" {
		canon, ok := reverbSynonymToCanonical[k]
		return canon, ok
	}

	if group == "delay" {
		canon, ok := delaySynonymToCanonical[k]
		return canon, ok
	}

	canon, ok := genericEffectParamCanonical[k]
	return canon, ok
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
