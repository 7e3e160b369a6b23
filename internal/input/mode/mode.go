// Package mode implements the modal command interpreter: Normal, Insert,
// Visual, and Command modes translate key events into named actions, and a
// Manager owns the active mode and its transitions.
package mode

import (
	"github.com/dshills/loom/internal/input/key"
)

// Mode names.
const (
	NameNormal  = "normal"
	NameInsert  = "insert"
	NameVisual  = "visual"
	NameCommand = "command"
)

// Action names understood by the dispatcher registry.
const (
	ActionCursorMove      = "cursor.move"
	ActionCursorLineStart = "cursor.line_start"
	ActionCursorLineEnd   = "cursor.line_end"

	ActionInsert           = "edit.insert"
	ActionDeleteBackward   = "edit.delete_backward"
	ActionDeleteForward    = "edit.delete_forward"
	ActionDeleteSelections = "edit.delete_selections"
	ActionYankSelections   = "edit.yank_selections"
	ActionOperator         = "edit.operator"
	ActionPaste            = "edit.paste"

	ActionUndo     = "history.undo"
	ActionRedo     = "history.redo"
	ActionSealUndo = "history.seal"

	ActionCollapseSelections = "selection.collapse"

	ActionSwitchMode = "mode.switch"
	ActionExecuteEx  = "command.execute"
)

// Action is a named command with arguments, resolved by the dispatcher.
type Action struct {
	Name string
	Args map[string]any
}

// act builds an action from alternating key/value argument pairs.
func act(name string, kv ...any) Action {
	a := Action{Name: name}
	if len(kv) > 0 {
		a.Args = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			a.Args[kv[i].(string)] = kv[i+1]
		}
	}
	return a
}

// switchTo is the action that asks the manager to change modes.
func switchTo(name string) Action {
	return act(ActionSwitchMode, "to", name)
}

// Mode interprets key events while it is active. HandleKey returns the
// actions the event maps to; an empty slice means the key was consumed as a
// no-op. Transitions are requested through the mode.switch action.
type Mode interface {
	// Name returns the unique mode identifier.
	Name() string

	// DisplayName returns the status-line label.
	DisplayName() string

	// Enter is called when the mode becomes active.
	Enter()

	// Exit is called when the mode is left.
	Exit()

	// HandleKey translates one key event into actions.
	HandleKey(ev key.Event) []Action
}
