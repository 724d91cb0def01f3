package tone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickBestParamExactBeatsSubstring(t *testing.T) {
	plugin := PluginSlot{Parameters: []ParamSlot{
		{Index: 0, Name: "Input Gain Stage"},
		{Index: 1, Name: "Gain"},
	}}

	idx, ok := PickBestParam(plugin, "gain")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestPickBestParamSynonymMatch(t *testing.T) {
	plugin := PluginSlot{Parameters: []ParamSlot{
		{Index: 0, Name: "Drive"},
	}}
	idx, ok := PickBestParam(plugin, "gain")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestPickBestParamNoMatch(t *testing.T) {
	plugin := PluginSlot{Parameters: []ParamSlot{
		{Index: 0, Name: "Unrelated Knob"},
	}}
	_, ok := PickBestParam(plugin, "gain")
	assert.False(t, ok)
}
