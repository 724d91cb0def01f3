// Package undoredo implements a bounded transaction log of applied host
// actions, grounded on original_source/tauri-app/src-tauri/src/undo_redo.rs.
// It is the impure shell spec.md §1 excludes from the core: internal/tone
// never knows an action was undone, it only ever plans forward.
package undoredo

import (
	"context"
	"fmt"
	"sync"

	"github.com/toneforge/toneforge-api/internal/host"
	"github.com/toneforge/toneforge-api/internal/tone"
	"github.com/google/uuid"
)

// MaxHistory bounds both the undo and redo stacks, matching
// undo_redo.rs's MAX_UNDO_HISTORY.
const MaxHistory = 50

// Transaction is one committed group of applied changes, reversible as a
// unit.
type Transaction struct {
	ID          string
	Description string
	Changes     []host.AppliedChange
}

// IsEmpty reports whether the transaction has nothing to undo.
func (t Transaction) IsEmpty() bool {
	return len(t.Changes) == 0
}

// Manager tracks per-track undo/redo stacks, mirroring UndoManager's
// begin/commit/pop/push API.
type Manager struct {
	mu    sync.Mutex
	undo  map[int][]Transaction
	redo  map[int][]Transaction
	idGen func() string
}

// NewManager creates an empty undo/redo manager.
func NewManager() *Manager {
	return &Manager{
		undo:  make(map[int][]Transaction),
		redo:  make(map[int][]Transaction),
		idGen: uuid.NewString,
	}
}

// Commit records a transaction for track, clearing that track's redo
// stack (original_source's "new action clears redo") and trimming the
// undo stack to MaxHistory. Empty transactions are dropped.
func (m *Manager) Commit(track int, description string, changes []host.AppliedChange) *Transaction {
	if len(changes) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	txn := Transaction{ID: m.idGen(), Description: description, Changes: changes}
	m.undo[track] = append(m.undo[track], txn)
	if len(m.undo[track]) > MaxHistory {
		m.undo[track] = m.undo[track][len(m.undo[track])-MaxHistory:]
	}
	m.redo[track] = nil

	return &txn
}

// CanUndo reports whether track has a transaction to undo.
func (m *Manager) CanUndo(track int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[track]) > 0
}

// CanRedo reports whether track has a transaction to redo.
func (m *Manager) CanRedo(track int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[track]) > 0
}

// Undo pops the most recent transaction for track, replays its inverse
// against the host adapter, and pushes it onto the redo stack.
func (m *Manager) Undo(ctx context.Context, client *host.Client, track int) (*Transaction, error) {
	m.mu.Lock()
	stack := m.undo[track]
	if len(stack) == 0 {
		m.mu.Unlock()
		return nil, fmt.Errorf("undoredo: nothing to undo for track %d", track)
	}
	txn := stack[len(stack)-1]
	m.undo[track] = stack[:len(stack)-1]
	m.mu.Unlock()

	if err := replayInverse(ctx, client, txn); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.redo[track] = append(m.redo[track], txn)
	if len(m.redo[track]) > MaxHistory {
		m.redo[track] = m.redo[track][len(m.redo[track])-MaxHistory:]
	}
	m.mu.Unlock()

	return &txn, nil
}

// Redo pops the most recent undone transaction for track, re-applies it
// forward, and pushes it back onto the undo stack.
func (m *Manager) Redo(ctx context.Context, client *host.Client, track int) (*Transaction, error) {
	m.mu.Lock()
	stack := m.redo[track]
	if len(stack) == 0 {
		m.mu.Unlock()
		return nil, fmt.Errorf("undoredo: nothing to redo for track %d", track)
	}
	txn := stack[len(stack)-1]
	m.redo[track] = stack[:len(stack)-1]
	m.mu.Unlock()

	if err := replayForward(ctx, client, txn); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.undo[track] = append(m.undo[track], txn)
	if len(m.undo[track]) > MaxHistory {
		m.undo[track] = m.undo[track][len(m.undo[track])-MaxHistory:]
	}
	m.mu.Unlock()

	return &txn, nil
}

// replayInverse applies each change's pre-image, last-applied-first.
func replayInverse(ctx context.Context, client *host.Client, txn Transaction) error {
	for i := len(txn.Changes) - 1; i >= 0; i-- {
		change := txn.Changes[i]
		switch change.Action.Kind {
		case tone.ActionSetParameter:
			if err := client.SetParameter(ctx, change.Action.Track, change.Action.PluginIndex,
				change.Action.ParamName, change.OldValue); err != nil {
				return fmt.Errorf("undoredo: revert set_parameter: %w", err)
			}
		case tone.ActionEnablePlugin:
			if _, err := client.SetPluginEnabled(ctx, change.Action.Track, change.Action.PluginIndex, false); err != nil {
				return fmt.Errorf("undoredo: revert enable_plugin: %w", err)
			}
		case tone.ActionLoadPlugin:
			// Loaded plugins are left in place on undo: removing an FX slot
			// would shift every later index captured in this and other
			// transactions. Disabling it approximates "undone" safely.
			if _, err := client.SetPluginEnabled(ctx, change.Action.Track, change.OldFX, false); err != nil {
				return fmt.Errorf("undoredo: revert load_plugin: %w", err)
			}
		}
	}
	return nil
}

// replayForward re-applies each change's post-image, original order.
func replayForward(ctx context.Context, client *host.Client, txn Transaction) error {
	for _, change := range txn.Changes {
		switch change.Action.Kind {
		case tone.ActionSetParameter:
			if err := client.SetParameter(ctx, change.Action.Track, change.Action.PluginIndex,
				change.Action.ParamName, change.Action.Value); err != nil {
				return fmt.Errorf("undoredo: redo set_parameter: %w", err)
			}
		case tone.ActionEnablePlugin:
			if _, err := client.SetPluginEnabled(ctx, change.Action.Track, change.Action.PluginIndex, true); err != nil {
				return fmt.Errorf("undoredo: redo enable_plugin: %w", err)
			}
		case tone.ActionLoadPlugin:
			if _, err := client.SetPluginEnabled(ctx, change.Action.Track, change.OldFX, true); err != nil {
				return fmt.Errorf("undoredo: redo load_plugin: %w", err)
			}
		}
	}
	return nil
}
