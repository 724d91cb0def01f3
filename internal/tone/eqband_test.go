package tone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapEQToReaEQAssignsStrongestPointsToLowestBands(t *testing.T) {
	plugin := PluginSlot{
		Index: 1,
		Name:  "ReaEQ (Cockos)",
		Parameters: []ParamSlot{
			{Index: 0, Name: "Band 1 Freq", CurrentValue: 0.3},
			{Index: 1, Name: "Band 1 Gain", CurrentValue: 0.5},
			{Index: 2, Name: "Band 2 Freq", CurrentValue: 0.3},
			{Index: 3, Name: "Band 2 Gain", CurrentValue: 0.5},
		},
	}
	eq := map[string]float64{"800Hz": -2.0, "2kHz": 6.0}

	var actions []Action
	var warnings []string
	MapEQToReaEQ(1, plugin, eq, 4, &actions, &warnings)

	require.Len(t, actions, 4)
	// 2kHz (|6.0|) is stronger than 800Hz (|2.0|), so it goes to band 1.
	assert.Equal(t, 0, actions[0].ParamIndex)
	assert.InDelta(t, HzToNormalizedLog(2000), actions[0].Value, 1e-9)
}

func TestMapEQToReaEQNoParsableFrequency(t *testing.T) {
	plugin := PluginSlot{Parameters: []ParamSlot{
		{Index: 0, Name: "Band 1 Freq"},
		{Index: 1, Name: "Band 1 Gain"},
	}}
	var actions []Action
	var warnings []string
	MapEQToReaEQ(1, plugin, map[string]float64{"notafreq": 1.0}, 4, &actions, &warnings)

	assert.Empty(t, actions)
	assert.NotEmpty(t, warnings)
}

func TestMapEQToReaEQNotReaEQShaped(t *testing.T) {
	plugin := PluginSlot{Parameters: []ParamSlot{
		{Index: 0, Name: "Low Shelf Freq"},
	}}
	var actions []Action
	var warnings []string
	MapEQToReaEQ(1, plugin, map[string]float64{"800Hz": 1.0}, 4, &actions, &warnings)

	assert.Empty(t, actions)
	assert.NotEmpty(t, warnings)
}
