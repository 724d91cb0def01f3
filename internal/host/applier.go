package host

import (
	"context"
	"fmt"

	"github.com/toneforge/toneforge-api/internal/tone"
)

// AppliedChange records what actually happened when an action was applied,
// the information the undo/redo log needs to invert it later.
type AppliedChange struct {
	Action   tone.Action
	OldValue float64
	OldFX    int // fx index the action resolved to, for LoadPlugin
}

// Apply executes a planned list of actions against the host in order,
// exactly as internal/tone.Mapper produced them — the driver already
// guarantees LoadPlugin precedes EnablePlugin precedes SetParameter. It
// returns the changes actually applied, so the caller can build an undo
// transaction from them.
func Apply(ctx context.Context, client *Client, actions []tone.Action) ([]AppliedChange, error) {
	applied := make([]AppliedChange, 0, len(actions))

	for _, action := range actions {
		switch action.Kind {
		case tone.ActionLoadPlugin:
			fxIndex, err := client.AddPlugin(ctx, action.Track, action.PluginName)
			if err != nil {
				return applied, fmt.Errorf("apply load_plugin %q: %w", action.PluginName, err)
			}
			applied = append(applied, AppliedChange{Action: action, OldFX: fxIndex})

		case tone.ActionEnablePlugin:
			if _, err := client.SetPluginEnabled(ctx, action.Track, action.PluginIndex, true); err != nil {
				return applied, fmt.Errorf("apply enable_plugin track=%d fx=%d: %w", action.Track, action.PluginIndex, err)
			}
			applied = append(applied, AppliedChange{Action: action})

		case tone.ActionSetParameter:
			oldValue, err := client.GetParameter(ctx, action.Track, action.PluginIndex, action.ParamName)
			if err != nil {
				return applied, fmt.Errorf("apply set_parameter read-before track=%d fx=%d param=%q: %w",
					action.Track, action.PluginIndex, action.ParamName, err)
			}
			if err := client.SetParameter(ctx, action.Track, action.PluginIndex, action.ParamName, action.Value); err != nil {
				return applied, fmt.Errorf("apply set_parameter track=%d fx=%d param=%q: %w",
					action.Track, action.PluginIndex, action.ParamName, err)
			}
			applied = append(applied, AppliedChange{Action: action, OldValue: oldValue})

		default:
			return applied, fmt.Errorf("apply: unknown action kind %v", action.Kind)
		}
	}

	return applied, nil
}
