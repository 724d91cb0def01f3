package tone

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const eqMaxAbsDB = 24.0

// MapEQToReaEQ assigns the strongest |dB| entries from eq (a frequency
// label -> dB map) to the plugin's numbered EQ bands, identified from
// parameter names of the form "Band N Freq" / "Band N Gain". Points are
// assigned to bands in ascending band-number order; this is intentionally
// the simplest deterministic pairing, not a closest-frequency match (see
// design notes on the EQ Band Assigner's scope).
func MapEQToReaEQ(track int, plugin PluginSlot, eq map[string]float64, maxPoints int, actions *[]Action, warnings *[]string) {
	type point struct {
		hz, db float64
	}
	keys := make([]string, 0, len(eq))
	for k := range eq {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var points []point
	for _, k := range keys {
		if hz, ok := ParseFrequency(k); ok {
			points = append(points, point{hz, eq[k]})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		if math.Abs(points[i].db) != math.Abs(points[j].db) {
			return math.Abs(points[i].db) > math.Abs(points[j].db)
		}
		return points[i].hz < points[j].hz
	})
	if len(points) > maxPoints {
		points = points[:maxPoints]
	}

	if len(points) == 0 {
		*warnings = append(*warnings, "eq map: no parsable frequency keys found; skipped")
		return
	}

	freqParam := make(map[int]ParamSlot)
	gainParam := make(map[int]ParamSlot)
	for _, p := range plugin.Parameters {
		band, ok := parseReaEQBandNumber(p.Name)
		if !ok {
			continue
		}
		norm := Normalize(p.Name)
		switch {
		case strings.Contains(norm, "freq"):
			freqParam[band] = p
		case strings.Contains(norm, "gain"):
			gainParam[band] = p
		}
	}

	if len(freqParam) == 0 || len(gainParam) == 0 {
		*warnings = append(*warnings, fmt.Sprintf(
			"eq map: '%s' does not look like ReaEQ band params; skipped", plugin.Name))
		return
	}

	bands := make([]int, 0, len(freqParam))
	for b := range freqParam {
		bands = append(bands, b)
	}
	sort.Ints(bands)

	n := len(points)
	if len(bands) < n {
		n = len(bands)
	}
	for i := 0; i < n; i++ {
		pt := points[i]
		band := bands[i]
		fp, okF := freqParam[band]
		gp, okG := gainParam[band]
		if !okF || !okG {
			continue
		}

		*actions = append(*actions, Action{
			Kind:        ActionSetParameter,
			Track:       track,
			PluginIndex: plugin.Index,
			ParamIndex:  fp.Index,
			ParamName:   fp.Name,
			Value:       HzToNormalizedLog(pt.hz),
			Reason:      fmt.Sprintf("eq :: set band %d freq to %.0f Hz", band, pt.hz),
		})
		*actions = append(*actions, Action{
			Kind:        ActionSetParameter,
			Track:       track,
			PluginIndex: plugin.Index,
			ParamIndex:  gp.Index,
			ParamName:   gp.Name,
			Value:       DBToNormalized(pt.db, eqMaxAbsDB),
			Reason:      fmt.Sprintf("eq :: set band %d gain to %+.1f dB", band, pt.db),
		})
	}
}

// parseReaEQBandNumber extracts N from a parameter name containing
// "Band N" (case-insensitive, optional whitespace before the digits).
func parseReaEQBandNumber(paramName string) (int, bool) {
	lower := strings.ToLower(paramName)
	bandPos := strings.Index(lower, "band")
	if bandPos < 0 {
		return 0, false
	}
	after := strings.TrimLeft(lower[bandPos+4:], " \t")
	end := 0
	for end < len(after) && after[end] >= '0' && after[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n := 0
	for _, r := range after[:end] {
		n = n*10 + int(r-'0')
	}
	return n, true
}
