package tone

// MappingStage names a step of the Mapping Driver's state machine, for
// callers that want to log or trace progress through a Map call.
type MappingStage int

const (
	StageIdle MappingStage = iota
	StageAmpMapping
	StageEffectsMapping
	StageReverbMapping
	StageDelayMapping
	StageEqMapping
	StageFinalizing
	StageDone
)

func (s MappingStage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAmpMapping:
		return "amp_mapping"
	case StageEffectsMapping:
		return "effects_mapping"
	case StageReverbMapping:
		return "reverb_mapping"
	case StageDelayMapping:
		return "delay_mapping"
	case StageEqMapping:
		return "eq_mapping"
	case StageFinalizing:
		return "finalizing"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// StageObserver is notified of each stage transition a Map call makes.
// Passing nil is always safe; Mapper only calls a non-nil observer.
type StageObserver func(stage MappingStage)

// Mapper is the deterministic tone-to-automation mapper described by the
// package: map(ToneSpec, HostSnapshot) -> MappingResult is a pure
// function of its two inputs.
type Mapper struct {
	config MapperConfig
}

// NewMapper constructs a Mapper with the given configuration.
func NewMapper(config MapperConfig) *Mapper {
	return &Mapper{config: config}
}

// Map walks the tone spec's sections in a fixed order — amp, effects,
// reverb, delay, eq — against the host snapshot, then runs the
// prerequisite, deduplication, and ordering passes before returning the
// final action list, warnings, and summary.
func (m *Mapper) Map(spec ToneSpec, snapshot HostSnapshot) MappingResult {
	return m.MapObserved(spec, snapshot, nil)
}

// MapObserved is Map with an optional stage observer, used by callers
// (e.g. the HTTP handler) that want to emit structured log lines as the
// driver advances through its state machine.
func (m *Mapper) MapObserved(spec ToneSpec, snapshot HostSnapshot, observe StageObserver) MappingResult {
	emit := func(s MappingStage) {
		if observe != nil {
			observe(s)
		}
	}

	track := snapshot.Track
	var actions []Action
	var warnings []string
	requiresResnapshot := false

	emit(StageAmpMapping)
	ampIdx, ampFound := PickBestPlugin(snapshot, "amp")
	if plugin, ok := findPlugin(snapshot, ampIdx, ampFound); ok {
		if !plugin.Enabled && len(spec.Amp) > 0 {
			actions = append(actions, enableAction(track, plugin, "enable amp plugin for tone mapping"))
		}
		MapParamGroup(track, plugin, spec.Amp, "amp", &actions, &warnings)
	} else if len(spec.Amp) > 0 {
		warnings = append(warnings, "no suitable amp plugin found; amp parameters were not applied")
	}

	emit(StageEffectsMapping)
	for _, effect := range spec.Effects {
		canonType := canonicalEffectType(effect.Type)
		role := Normalize(canonType)
		if canonType == "noise_gate" {
			role = "gate"
		}
		effectIdx, effectFound := PickBestPlugin(snapshot, role)
		if plugin, ok := findPlugin(snapshot, effectIdx, effectFound); ok {
			if !plugin.Enabled && len(effect.Params) > 0 {
				actions = append(actions, enableAction(track, plugin,
					"enable '"+effect.Type+"' plugin for tone mapping"))
			}
			MapParamGroup(track, plugin, effect.Params, "effect:"+effect.Type, &actions, &warnings)
		} else if m.config.AllowLoadPlugins {
			if defaultFx, ok := defaultPluginFor[canonType]; ok {
				actions = append(actions, Action{
					Kind:       ActionLoadPlugin,
					Track:      track,
					PluginName: defaultFx,
					Reason:     "load missing effect plugin for '" + effect.Type + "'",
				})
				requiresResnapshot = true
			} else {
				warnings = append(warnings, "no suitable plugin found for effect '"+effect.Type+"'; skipped")
			}
		} else {
			warnings = append(warnings, "no suitable plugin found for effect '"+effect.Type+"'; skipped")
		}
	}

	emit(StageReverbMapping)
	if len(spec.Reverb) > 0 {
		reverbIdx, reverbFound := PickBestPlugin(snapshot, "reverb")
		if plugin, ok := findPlugin(snapshot, reverbIdx, reverbFound); ok {
			if !plugin.Enabled {
				actions = append(actions, enableAction(track, plugin, "enable reverb plugin for tone mapping"))
			}
			MapParamGroup(track, plugin, spec.Reverb, "reverb", &actions, &warnings)
		} else if m.config.AllowLoadPlugins {
			actions = append(actions, Action{
				Kind:       ActionLoadPlugin,
				Track:      track,
				PluginName: defaultPluginFor["reverb"],
				Reason:     "load missing reverb plugin",
			})
			requiresResnapshot = true
		} else {
			warnings = append(warnings, "no suitable reverb plugin found; skipped")
		}
	}

	emit(StageDelayMapping)
	if len(spec.Delay) > 0 {
		delayIdx, delayFound := PickBestPlugin(snapshot, "delay")
		if plugin, ok := findPlugin(snapshot, delayIdx, delayFound); ok {
			if !plugin.Enabled {
				actions = append(actions, enableAction(track, plugin, "enable delay plugin for tone mapping"))
			}
			MapParamGroup(track, plugin, spec.Delay, "delay", &actions, &warnings)
		} else if m.config.AllowLoadPlugins {
			actions = append(actions, Action{
				Kind:       ActionLoadPlugin,
				Track:      track,
				PluginName: defaultPluginFor["delay"],
				Reason:     "load missing delay plugin",
			})
			requiresResnapshot = true
		} else {
			warnings = append(warnings, "no suitable delay plugin found; skipped")
		}
	}

	emit(StageEqMapping)
	if len(spec.EQ) > 0 {
		eqIdx, eqFound := PickBestPlugin(snapshot, "eq")
		if plugin, ok := findPlugin(snapshot, eqIdx, eqFound); ok {
			if !plugin.Enabled {
				actions = append(actions, enableAction(track, plugin, "enable EQ plugin for tone mapping"))
			}
			MapEQToReaEQ(track, plugin, spec.EQ, m.config.MaxEQPoints, &actions, &warnings)
		} else if m.config.AllowLoadPlugins {
			actions = append(actions, Action{
				Kind:       ActionLoadPlugin,
				Track:      track,
				PluginName: defaultPluginFor["eq"],
				Reason:     "load missing EQ plugin",
			})
			requiresResnapshot = true
		} else {
			warnings = append(warnings, "no suitable EQ plugin found; skipped")
		}
	}

	emit(StageFinalizing)
	actions = EnsurePrerequisites(actions, snapshot, &warnings)
	actions = PlanActions(actions, &warnings)
	summary := BuildSummary(actions, requiresResnapshot)

	emit(StageDone)
	return MappingResult{
		Actions:            actions,
		Warnings:           warnings,
		Summary:            summary,
		RequiresResnapshot: requiresResnapshot,
	}
}

func findPlugin(snapshot HostSnapshot, index int, ok bool) (PluginSlot, bool) {
	if !ok {
		return PluginSlot{}, false
	}
	for _, p := range snapshot.Plugins {
		if p.Index == index {
			return p, true
		}
	}
	return PluginSlot{}, false
}

func enableAction(track int, plugin PluginSlot, reason string) Action {
	return Action{
		Kind:        ActionEnablePlugin,
		Track:       track,
		PluginIndex: plugin.Index,
		PluginName:  plugin.Name,
		Reason:      reason,
	}
}
