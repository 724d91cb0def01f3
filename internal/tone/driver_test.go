package tone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapS1_OrderingUnderMissingPlugin(t *testing.T) {
	snapshot := HostSnapshot{
		Track: 1,
		Plugins: []PluginSlot{
			{
				Index:   0,
				Name:    "VST3: Neural DSP Archetype",
				Enabled: false,
				Parameters: []ParamSlot{
					{Index: 0, Name: "Gain", CurrentValue: 0.1},
				},
			},
		},
	}
	spec := ToneSpec{
		Amp: map[string]float64{"gain": 0.9},
		Effects: []EffectSpec{
			{Type: "noise_gate", Params: map[string]float64{"threshold": 0.3}},
		},
	}

	m := NewMapper(MapperConfig{AllowLoadPlugins: true, MaxEQPoints: 4})
	result := m.Map(spec, snapshot)

	require.True(t, result.RequiresResnapshot)
	require.GreaterOrEqual(t, len(result.Actions), 3)

	var loadIdx, enableIdx, setIdx = -1, -1, -1
	for i, a := range result.Actions {
		switch a.Kind {
		case ActionLoadPlugin:
			if a.PluginName == "ReaGate (Cockos)" && loadIdx == -1 {
				loadIdx = i
			}
		case ActionEnablePlugin:
			if a.PluginIndex == 0 && enableIdx == -1 {
				enableIdx = i
			}
		case ActionSetParameter:
			if a.PluginIndex == 0 && a.ParamIndex == 0 && setIdx == -1 {
				setIdx = i
			}
		}
	}

	require.NotEqual(t, -1, loadIdx)
	require.NotEqual(t, -1, enableIdx)
	require.NotEqual(t, -1, setIdx)
	assert.Less(t, loadIdx, enableIdx)
	assert.Less(t, enableIdx, setIdx)
}

func TestMapS2_OutOfRangeClamping(t *testing.T) {
	snapshot := HostSnapshot{
		Track: 1,
		Plugins: []PluginSlot{
			{Index: 0, Name: "VST3: Neural DSP Archetype", Enabled: true, Parameters: []ParamSlot{
				{Index: 0, Name: "Gain", CurrentValue: 0.5},
			}},
		},
	}
	spec := ToneSpec{Amp: map[string]float64{"gain": 999.0}}

	m := NewMapper(DefaultMapperConfig())
	result := m.Map(spec, snapshot)

	var setCount int
	for _, a := range result.Actions {
		if a.Kind == ActionSetParameter {
			setCount++
			assert.InDelta(t, 1.0, a.Value, 1e-9)
		}
	}
	assert.Equal(t, 1, setCount)
	assert.NotEmpty(t, result.Warnings)
}

func TestMapS3_EQRolePreference(t *testing.T) {
	snapshot := HostSnapshot{
		Track: 1,
		Plugins: []PluginSlot{
			{Index: 0, Name: "VST3: Neural DSP Archetype", Enabled: true, Parameters: []ParamSlot{
				{Index: 0, Name: "Gain", CurrentValue: 0.5},
			}},
			{Index: 1, Name: "ReaEQ (Cockos)", Enabled: true, Parameters: []ParamSlot{
				{Index: 0, Name: "Band 1 Freq", CurrentValue: 0.3},
				{Index: 1, Name: "Band 1 Gain", CurrentValue: 0.5},
			}},
		},
	}
	spec := ToneSpec{EQ: map[string]float64{"800Hz": -4.0}}

	m := NewMapper(DefaultMapperConfig())
	result := m.Map(spec, snapshot)

	var hitReaEQ bool
	for _, a := range result.Actions {
		if a.Kind == ActionSetParameter && a.PluginIndex == 1 {
			hitReaEQ = true
		}
	}
	assert.True(t, hitReaEQ)
}

func TestMapS4_Determinism(t *testing.T) {
	snapshot := HostSnapshot{
		Track: 2,
		Plugins: []PluginSlot{
			{Index: 0, Name: "VST3: Neural DSP Archetype", Enabled: true, Parameters: []ParamSlot{
				{Index: 0, Name: "Gain", CurrentValue: 0.2},
				{Index: 1, Name: "Treble", CurrentValue: 0.4},
			}},
			{Index: 1, Name: "ReaDelay (Cockos)", Enabled: false, Parameters: []ParamSlot{
				{Index: 0, Name: "Bypass", CurrentValue: 1.0},
				{Index: 1, Name: "Time", CurrentValue: 0.3},
				{Index: 2, Name: "Feedback", CurrentValue: 0.2},
			}},
		},
	}
	spec := ToneSpec{
		Amp:   map[string]float64{"gain": 0.6, "treble": 0.3},
		Delay: map[string]float64{"time": 0.4, "feedback": 0.25},
	}

	m := NewMapper(DefaultMapperConfig())
	r1 := m.Map(spec, snapshot)
	r2 := m.Map(spec, snapshot)

	assert.Equal(t, r1.Actions, r2.Actions)
	assert.Equal(t, r1.Warnings, r2.Warnings)
	assert.Equal(t, r1.Summary, r2.Summary)
}

func TestMapS5_UnmappedParamWarningWithoutSet(t *testing.T) {
	snapshot := HostSnapshot{
		Track: 1,
		Plugins: []PluginSlot{
			{Index: 0, Name: "VST3: Neural DSP Archetype", Enabled: true, Parameters: []ParamSlot{
				{Index: 0, Name: "Gain", CurrentValue: 0.5},
			}},
		},
	}
	spec := ToneSpec{Amp: map[string]float64{"super_unknown_knob": 0.42}}

	m := NewMapper(DefaultMapperConfig())
	result := m.Map(spec, snapshot)

	assert.NotEmpty(t, result.Warnings)
	for _, a := range result.Actions {
		assert.NotEqual(t, ActionSetParameter, a.Kind)
	}
}

func TestMapS6_SectionGateInsertion(t *testing.T) {
	snapshot := HostSnapshot{
		Track: 1,
		Plugins: []PluginSlot{
			{Index: 0, Name: "VST3: Neural DSP Archetype", Enabled: true, Parameters: []ParamSlot{
				{Index: 0, Name: "Gain", CurrentValue: 0.5},
				{Index: 10, Name: "EQ Bypass", CurrentValue: 1.0},
				{Index: 11, Name: "EQ Gain", CurrentValue: 0.5},
			}},
		},
	}
	spec := ToneSpec{Amp: map[string]float64{"gain": 0.8}}

	m := NewMapper(DefaultMapperConfig())
	result := m.Map(spec, snapshot)

	var gateIdx, targetIdx = -1, -1
	for i, a := range result.Actions {
		if a.Kind != ActionSetParameter {
			continue
		}
		if a.ParamIndex == 11 && targetIdx == -1 {
			targetIdx = i
		}
		if a.ParamIndex == 10 && gateIdx == -1 {
			gateIdx = i
		}
	}
	if targetIdx != -1 {
		require.NotEqual(t, -1, gateIdx)
		assert.Less(t, gateIdx, targetIdx)
		for _, a := range result.Actions {
			if a.ParamIndex == 10 && a.Kind == ActionSetParameter {
				assert.InDelta(t, 0.0, a.Value, 1e-9)
			}
		}
	}
}

func TestMapS7_AutoEnableBeforeSet(t *testing.T) {
	snapshot := HostSnapshot{
		Track: 1,
		Plugins: []PluginSlot{
			{Index: 0, Name: "VST3: Neural DSP Archetype", Enabled: false, Parameters: []ParamSlot{
				{Index: 0, Name: "Gain", CurrentValue: 0.2},
			}},
		},
	}
	spec := ToneSpec{Amp: map[string]float64{"gain": 0.7}}

	m := NewMapper(MapperConfig{AllowLoadPlugins: false, MaxEQPoints: 4})
	result := m.Map(spec, snapshot)

	var enableIdx, setIdx = -1, -1
	for i, a := range result.Actions {
		if a.Kind == ActionEnablePlugin && a.PluginIndex == 0 && enableIdx == -1 {
			enableIdx = i
		}
		if a.Kind == ActionSetParameter && a.PluginIndex == 0 && a.ParamIndex == 0 && setIdx == -1 {
			setIdx = i
		}
	}
	require.NotEqual(t, -1, enableIdx)
	require.NotEqual(t, -1, setIdx)
	assert.Less(t, enableIdx, setIdx)
}

func TestMapUniversalInvariants(t *testing.T) {
	snapshot := HostSnapshot{
		Track: 3,
		Plugins: []PluginSlot{
			{Index: 0, Name: "VST3: Neural DSP Archetype", Enabled: true, Parameters: []ParamSlot{
				{Index: 0, Name: "Gain", CurrentValue: 0.5},
			}},
		},
	}
	spec := ToneSpec{Amp: map[string]float64{"gain": 1.5}}

	m := NewMapper(DefaultMapperConfig())
	result := m.Map(spec, snapshot)

	for _, a := range result.Actions {
		if a.Kind == ActionSetParameter {
			assert.GreaterOrEqual(t, a.Value, 0.0)
			assert.LessOrEqual(t, a.Value, 1.0)
		}
	}

	var loadSeen, enableSeen, setSeen bool
	for _, a := range result.Actions {
		switch a.Kind {
		case ActionLoadPlugin:
			require.False(t, enableSeen || setSeen, "LoadPlugin must precede EnablePlugin/SetParameter")
			loadSeen = true
		case ActionEnablePlugin:
			require.False(t, setSeen, "EnablePlugin must precede SetParameter")
			enableSeen = true
		case ActionSetParameter:
			setSeen = true
		}
	}
	_ = loadSeen
}
