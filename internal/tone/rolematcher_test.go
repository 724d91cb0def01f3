package tone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickBestPluginStrictlyGreatestScore(t *testing.T) {
	snapshot := HostSnapshot{Plugins: []PluginSlot{
		{Index: 0, Name: "Generic Delay Thing"},
		{Index: 1, Name: "ReaDelay (Cockos)"},
	}}

	idx, ok := PickBestPlugin(snapshot, "delay")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestPickBestPluginNoMatch(t *testing.T) {
	snapshot := HostSnapshot{Plugins: []PluginSlot{
		{Index: 0, Name: "Some Synth"},
	}}
	_, ok := PickBestPlugin(snapshot, "delay")
	assert.False(t, ok)
}

func TestPickBestPluginTieBreaksFirstInOrder(t *testing.T) {
	snapshot := HostSnapshot{Plugins: []PluginSlot{
		{Index: 0, Name: "Delay A"},
		{Index: 1, Name: "Delay B"},
	}}
	idx, ok := PickBestPlugin(snapshot, "delay")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}
