package tone

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// MapParamGroup resolves each key in params against plugin's parameters
// via PickBestParam and appends a SetParameter action for every match,
// warning about anything left unmapped.
func MapParamGroup(track int, plugin PluginSlot, params map[string]float64, group string, actions *[]Action, warnings *[]string) {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := params[key]
		idx, ok := PickBestParam(plugin, key)
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf(
				"unmapped %s param '%s' for plugin '%s'", group, key, plugin.Name))
			continue
		}
		param := plugin.Parameters[paramSlotIndex(plugin, idx)]
		*actions = append(*actions, Action{
			Kind:        ActionSetParameter,
			Track:       track,
			PluginIndex: plugin.Index,
			ParamIndex:  param.Index,
			ParamName:   param.Name,
			Value:       value,
			Reason:      fmt.Sprintf("%s :: %s -> %s", group, key, param.Name),
		})
	}
}

func paramSlotIndex(plugin PluginSlot, paramIndex int) int {
	for i, p := range plugin.Parameters {
		if p.Index == paramIndex {
			return i
		}
	}
	return 0
}

// EnsurePrerequisites inserts any missing EnablePlugin actions ahead of a
// SetParameter on a currently-disabled plugin, then — independently —
// inserts a gate-enabling SetParameter ahead of any SetParameter whose
// target section appears to be gated off. Both passes are additive: they
// only ever append actions, never remove or reorder existing ones (final
// ordering is PlanActions's job).
func EnsurePrerequisites(actions []Action, snapshot HostSnapshot, warnings *[]string) []Action {
	pluginByIndex := make(map[int]PluginSlot, len(snapshot.Plugins))
	for _, p := range snapshot.Plugins {
		pluginByIndex[p.Index] = p
	}

	hasEnable := make(map[int]bool)
	for _, a := range actions {
		if a.Kind == ActionEnablePlugin {
			hasEnable[a.PluginIndex] = true
		}
	}

	needsEnable := make(map[int]bool)
	var needsEnableOrder []int
	for _, a := range actions {
		if a.Kind != ActionSetParameter {
			continue
		}
		plugin, ok := pluginByIndex[a.PluginIndex]
		if !ok || plugin.Enabled || hasEnable[a.PluginIndex] || needsEnable[a.PluginIndex] {
			continue
		}
		needsEnable[a.PluginIndex] = true
		needsEnableOrder = append(needsEnableOrder, a.PluginIndex)
	}

	for _, pluginIndex := range needsEnableOrder {
		plugin := pluginByIndex[pluginIndex]
		*warnings = append(*warnings, fmt.Sprintf(
			"plugin '%s' was disabled but has SetParameter actions; inserting EnablePlugin", plugin.Name))
		actions = append(actions, Action{
			Kind:        ActionEnablePlugin,
			Track:       snapshot.Track,
			PluginIndex: pluginIndex,
			PluginName:  plugin.Name,
			Reason:      "auto-enable plugin because parameters will be set",
		})
	}

	type insertedKey struct {
		pluginIndex, gateParamIndex int
	}
	inserted := make(map[insertedKey]bool)
	gatesByPlugin := make(map[int][]gateParam)
	for _, p := range snapshot.Plugins {
		if gates := pluginGates(p); len(gates) > 0 {
			gatesByPlugin[p.Index] = gates
		}
	}

	var extra []Action
	for _, a := range actions {
		if a.Kind != ActionSetParameter {
			continue
		}
		gates, ok := gatesByPlugin[a.PluginIndex]
		if !ok {
			continue
		}
		gate, ok := findGateForTarget(gates, a.ParamIndex, a.ParamName)
		if !ok {
			continue
		}
		key := insertedKey{a.PluginIndex, gate.paramIndex}
		if inserted[key] {
			continue
		}
		if !gateIsInactive(gate) {
			continue
		}
		inserted[key] = true
		*warnings = append(*warnings, fmt.Sprintf(
			"section gate '%s' appears inactive; inserting toggle before setting '%s'", gate.paramName, a.ParamName))
		extra = append(extra, Action{
			Kind:        ActionSetParameter,
			Track:       a.Track,
			PluginIndex: a.PluginIndex,
			ParamIndex:  gate.paramIndex,
			ParamName:   gate.paramName,
			Value:       gateEnableValue(gate),
			Reason:      fmt.Sprintf("auto-enable section for '%s'", a.ParamName),
		})
	}

	return append(actions, extra...)
}

// PlanActions applies value hygiene, keep-last deduplication on
// (track, plugin_index, param_index), and a stable deterministic sort:
// Load before Enable before Set, grouped by plugin index, with gate-shaped
// SetParameter actions ordered before ordinary ones within a plugin.
func PlanActions(actions []Action, warnings *[]string) []Action {
	for i := range actions {
		if actions[i].Kind != ActionSetParameter {
			continue
		}
		v := actions[i].Value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			*warnings = append(*warnings, "non-finite parameter value encountered; clamping to 0.5")
			actions[i].Value = 0.5
			continue
		}
		if v < 0.0 {
			*warnings = append(*warnings, fmt.Sprintf("value %g < 0.0; clamped to 0.0", v))
			actions[i].Value = 0.0
		} else if v > 1.0 {
			*warnings = append(*warnings, fmt.Sprintf("value %g > 1.0; clamped to 1.0", v))
			actions[i].Value = 1.0
		}
	}

	type dedupKey struct {
		track, pluginIndex, paramIndex int
	}
	lastSetIdx := make(map[dedupKey]int)
	for idx, a := range actions {
		if a.Kind == ActionSetParameter {
			lastSetIdx[dedupKey{a.Track, a.PluginIndex, a.ParamIndex}] = idx
		}
	}

	filtered := make([]Action, 0, len(actions))
	for idx, a := range actions {
		if a.Kind == ActionSetParameter {
			key := dedupKey{a.Track, a.PluginIndex, a.ParamIndex}
			if lastSetIdx[key] != idx {
				continue
			}
		}
		filtered = append(filtered, a)
	}

	type sortKey struct {
		typeRank, pluginRank, setRank, idx int
	}
	keyed := make([]struct {
		key sortKey
		act Action
	}, len(filtered))

	for idx, a := range filtered {
		var typeRank, pluginRank, setRank int
		switch a.Kind {
		case ActionLoadPlugin:
			typeRank = 0
			pluginRank = -1
		case ActionEnablePlugin:
			typeRank = 1
			pluginRank = a.PluginIndex
		case ActionSetParameter:
			typeRank = 2
			pluginRank = a.PluginIndex
			if isGateShapedName(a.ParamName) {
				setRank = 0
			} else {
				setRank = 1
			}
		}
		keyed[idx].key = sortKey{typeRank, pluginRank, setRank, idx}
		keyed[idx].act = a
	}

	sort.Slice(keyed, func(i, j int) bool {
		a, b := keyed[i].key, keyed[j].key
		if a.typeRank != b.typeRank {
			return a.typeRank < b.typeRank
		}
		if a.pluginRank != b.pluginRank {
			return a.pluginRank < b.pluginRank
		}
		if a.setRank != b.setRank {
			return a.setRank < b.setRank
		}
		return a.idx < b.idx
	})

	out := make([]Action, len(keyed))
	for i, k := range keyed {
		out[i] = k.act
	}
	return out
}

func isGateShapedName(name string) bool {
	n := Normalize(name)
	return strings.Contains(n, "bypass") || strings.Contains(n, "enable") ||
		strings.Contains(n, "enabled") || strings.Contains(n, "active") || strings.HasSuffix(n, "on")
}

// BuildSummary renders a short human-readable count of the planned
// actions, e.g. "load 1 plugin(s), set 4 parameter(s)".
func BuildSummary(actions []Action, requiresResnapshot bool) string {
	var loadCount, enableCount, setCount int
	for _, a := range actions {
		switch a.Kind {
		case ActionLoadPlugin:
			loadCount++
		case ActionEnablePlugin:
			enableCount++
		case ActionSetParameter:
			setCount++
		}
	}

	var parts []string
	if loadCount > 0 {
		parts = append(parts, fmt.Sprintf("load %d plugin(s)", loadCount))
	}
	if enableCount > 0 {
		parts = append(parts, fmt.Sprintf("enable %d plugin(s)", enableCount))
	}
	if setCount > 0 {
		parts = append(parts, fmt.Sprintf("set %d parameter(s)", setCount))
	}
	if len(parts) == 0 {
		parts = append(parts, "no actions")
	}
	if requiresResnapshot {
		parts = append(parts, "requires resnapshot")
	}
	return strings.Join(parts, ", ")
}
