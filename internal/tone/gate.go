package tone

import "strings"

// GateKind discriminates the two shapes a section on/off parameter takes.
type GateKind int

const (
	// GateBypass is a "Bypass" parameter: >=0.5 means the section is off.
	GateBypass GateKind = iota
	// GateEnable is an "Enable"/"Active"/"...On" parameter: <0.5 means off.
	GateEnable
)

// gateParam is one candidate gate parameter found on a plugin.
type gateParam struct {
	paramIndex   int
	paramName    string
	currentValue float64
	kind         GateKind
	moduleTokens map[string]struct{}
}

// detectGateKind classifies a parameter name as a gate, or reports that
// it is not one. "Bypass" is checked first since it inverts the usual
// enabled-means-high polarity.
func detectGateKind(name string) (GateKind, bool) {
	n := Normalize(name)
	if strings.Contains(n, "bypass") {
		return GateBypass, true
	}
	if strings.Contains(n, "enable") || strings.Contains(n, "enabled") ||
		strings.HasSuffix(n, "on") || strings.Contains(n, "active") {
		return GateEnable, true
	}
	return 0, false
}

// gateIsInactive reports whether the section the gate controls is
// currently off, given the gate's normalized current value.
func gateIsInactive(g gateParam) bool {
	switch g.kind {
	case GateBypass:
		return g.currentValue >= 0.5
	default:
		return g.currentValue < 0.5
	}
}

// gateEnableValue is the normalized value that turns the gate's section on.
func gateEnableValue(g gateParam) float64 {
	if g.kind == GateBypass {
		return 0.0
	}
	return 1.0
}

// pluginGates collects every gate-shaped parameter on plugin.
func pluginGates(plugin PluginSlot) []gateParam {
	var gates []gateParam
	for _, p := range plugin.Parameters {
		kind, ok := detectGateKind(p.Name)
		if !ok {
			continue
		}
		gates = append(gates, gateParam{
			paramIndex:   p.Index,
			paramName:    p.Name,
			currentValue: p.CurrentValue,
			kind:         kind,
			moduleTokens: ModuleTokens(p.Name),
		})
	}
	return gates
}

// findGateForTarget picks the gate on a plugin that most plausibly
// controls targetParamName, by module-token overlap. When no gate shares
// a token with the target it falls back to: the sole gate on the plugin,
// then any gate with no module tokens of its own (i.e. a plugin-wide
// toggle like a bare "Bypass").
func findGateForTarget(gates []gateParam, targetParamIndex int, targetParamName string) (gateParam, bool) {
	// A SetParameter that targets the gate itself has no gate to insert.
	for _, g := range gates {
		if g.paramIndex == targetParamIndex {
			return gateParam{}, false
		}
	}

	targetTokens := ModuleTokens(targetParamName)

	if len(targetTokens) > 0 {
		bestOverlap := 0
		bestIdx := -1
		for i, g := range gates {
			overlap := tokenSetOverlap(g.moduleTokens, targetTokens)
			if overlap > 0 && overlap > bestOverlap {
				bestOverlap = overlap
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			return gates[bestIdx], true
		}
	}

	if len(gates) == 1 {
		return gates[0], true
	}

	for _, g := range gates {
		if len(g.moduleTokens) == 0 {
			return g, true
		}
	}

	return gateParam{}, false
}
