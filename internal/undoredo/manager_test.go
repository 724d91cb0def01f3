package undoredo

import (
	"testing"

	"github.com/toneforge/toneforge-api/internal/host"
	"github.com/toneforge/toneforge-api/internal/tone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChanges() []host.AppliedChange {
	return []host.AppliedChange{
		{
			Action: tone.Action{
				Kind: tone.ActionSetParameter, Track: 0, PluginIndex: 1,
				ParamName: "Gain", Value: 0.8,
			},
			OldValue: 0.5,
		},
	}
}

func TestManagerStartsEmpty(t *testing.T) {
	m := NewManager()
	assert.False(t, m.CanUndo(0))
	assert.False(t, m.CanRedo(0))
}

func TestCommitEnablesUndo(t *testing.T) {
	m := NewManager()
	txn := m.Commit(0, "Change gain", sampleChanges())
	require.NotNil(t, txn)
	assert.True(t, m.CanUndo(0))
	assert.False(t, m.CanRedo(0))
}

func TestCommitWithNoChangesIsDropped(t *testing.T) {
	m := NewManager()
	txn := m.Commit(0, "Empty", nil)
	assert.Nil(t, txn)
	assert.False(t, m.CanUndo(0))
}

func TestNewCommitClearsRedo(t *testing.T) {
	m := NewManager()
	m.Commit(0, "Action 1", sampleChanges())
	// Simulate a redo-eligible state directly, mirroring what Undo would do.
	m.mu.Lock()
	m.redo[0] = append(m.redo[0], Transaction{ID: "x", Description: "undone"})
	m.mu.Unlock()
	assert.True(t, m.CanRedo(0))

	m.Commit(0, "Action 2", sampleChanges())
	assert.False(t, m.CanRedo(0))
}

func TestHistoryBoundedAtMaxHistory(t *testing.T) {
	m := NewManager()
	for i := 0; i < MaxHistory+10; i++ {
		m.Commit(0, "step", sampleChanges())
	}
	m.mu.Lock()
	count := len(m.undo[0])
	m.mu.Unlock()
	assert.Equal(t, MaxHistory, count)
}
