package tone

// scoreParamName scores a normalized parameter name against a canonical
// key and its synonym list:
//   - exact match against the canonical key itself: 100
//   - substring containment of the canonical key:    60
//   - exact match against synonym i:                 90-i
//   - substring containment of synonym i:             50-i
//
// The highest-scoring rule that applies wins; rules are not summed.
func scoreParamName(paramNameNorm, canonicalKeyNorm string, synonyms []string) int {
	best := 0

	if paramNameNorm == canonicalKeyNorm {
		best = 100
	} else if containsSubstring(paramNameNorm, canonicalKeyNorm) {
		best = 60
	}

	for i, syn := range synonyms {
		if syn == "" {
			continue
		}
		if paramNameNorm == syn {
			if s := 90 - i; s > best {
				best = s
			}
		} else if containsSubstring(paramNameNorm, syn) {
			if s := 50 - i; s > best {
				best = s
			}
		}
	}

	return best
}

// PickBestParam scores every parameter of plugin against canonicalKey and
// its synonym table, returning the index of the strictly-highest-scoring
// parameter. A zero or negative score never wins; ties keep the
// first-occurring (lowest-index) parameter.
func PickBestParam(plugin PluginSlot, canonicalKey string) (index int, found bool) {
	keyNorm := Normalize(canonicalKey)
	synonyms := synonymsFor(keyNorm)

	best := 0
	bestIdx := -1
	for _, p := range plugin.Parameters {
		s := scoreParamName(Normalize(p.Name), keyNorm, synonyms)
		if s > 0 && s > best {
			best = s
			bestIdx = p.Index
		}
	}
	if bestIdx < 0 {
		return 0, false
	}
	return bestIdx, true
}
