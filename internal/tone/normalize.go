package tone

import (
	"strconv"
	"strings"
)

// gateStopWords is the fixed vocabulary ModuleTokens strips out before
// computing overlap candidates for the Gate Inferencer. It deliberately
// reuses the same words the gate/role vocabulary itself is built from, so
// that e.g. "EQ Bypass" and "EQ Gain" still share the "eq" token instead of
// spuriously differing only on "bypass" vs "gain".
var gateStopWords = map[string]struct{}{
	"enable": {}, "enabled": {}, "bypass": {}, "on": {}, "off": {},
	"active": {}, "switch": {}, "button": {}, "band": {}, "freq": {},
	"frequency": {}, "gain": {}, "level": {}, "mix": {}, "amount": {},
}

// Normalize lowercases text and strips every non-alphanumeric rune. It is
// the single normalization step used everywhere scoring or vocabulary
// lookup occurs, so that "Band 1 Freq", "band1freq", and "BAND-1-FREQ" all
// compare equal.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseFrequency parses a frequency label such as "800Hz" or "2kHz" into a
// Hz value. The label is trimmed, lowercased, and space-stripped before
// matching; anything not ending in "hz" or "khz" with a numeric prefix
// returns ok=false.
func ParseFrequency(label string) (hz float64, ok bool) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "")
	if s == "" {
		return 0, false
	}
	if idx := strings.Index(s, "khz"); idx >= 0 && idx == len(s)-3 {
		v, err := strconv.ParseFloat(s[:idx], 64)
		if err != nil {
			return 0, false
		}
		return v * 1000, true
	}
	if idx := strings.Index(s, "hz"); idx >= 0 && idx == len(s)-2 {
		v, err := strconv.ParseFloat(s[:idx], 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// ModuleTokens splits a parameter name on non-alphanumeric boundaries,
// lowercases the pieces, drops the fixed gate/role stop-list, and drops
// purely numeric tokens. Used only by the Gate Inferencer to decide which
// section gate a parameter belongs to.
func ModuleTokens(name string) map[string]struct{} {
	out := make(map[string]struct{})
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tok := strings.ToLower(cur.String())
		cur.Reset()
		if isNumeric(tok) {
			return
		}
		if _, stop := gateStopWords[tok]; stop {
			return
		}
		out[tok] = struct{}{}
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// tokenSetOverlap counts the number of tokens shared between a and b.
func tokenSetOverlap(a, b map[string]struct{}) int {
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}
