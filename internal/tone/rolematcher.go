package tone

// scoreTextAgainstKeywords scores normalized text against an ordered
// keyword list: keyword i contributes (10-i) when it occurs as a
// substring of text. Scores from every matching keyword are summed, not
// just the best one, so a plugin name hitting multiple keywords (e.g.
// "ReaEQ" matching both "reaeq" and "eq") scores higher than one hitting
// only the generic keyword.
func scoreTextAgainstKeywords(textNorm string, keywords []string) int {
	score := 0
	for i, kw := range keywords {
		if kw == "" {
			continue
		}
		if containsSubstring(textNorm, kw) {
			score += 10 - i
		}
	}
	return score
}

func containsSubstring(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	n, m := len(haystack), len(needle)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if haystack[i:i+m] == needle {
			return i
		}
	}
	return -1
}

// PickBestPlugin scores every plugin in snapshot against role's keyword
// list and returns the index of the strictly-highest-scoring plugin. A
// zero or negative score never wins. Ties are broken by snapshot order
// (first occurrence wins), since scoring is computed in index order and
// only a strictly greater score replaces the incumbent.
func PickBestPlugin(snapshot HostSnapshot, role string) (index int, found bool) {
	keywords := roleKeywordsFor(role)
	best := 0
	bestIdx := -1
	for _, p := range snapshot.Plugins {
		s := scoreTextAgainstKeywords(Normalize(p.Name), keywords)
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
