package mode

import (
	"github.com/dshills/loom/internal/input/key"
)

// Insert mode: printable keys insert text at every cursor. Escape returns
// to normal mode, sealing the open undo group so the whole insertion run
// undoes as units.
type Insert struct{}

// NewInsert creates the insert mode.
func NewInsert() *Insert {
	return &Insert{}
}

// Name implements Mode.
func (i *Insert) Name() string { return NameInsert }

// DisplayName implements Mode.
func (i *Insert) DisplayName() string { return "INSERT" }

// Enter implements Mode.
func (i *Insert) Enter() {}

// Exit implements Mode.
func (i *Insert) Exit() {}

// HandleKey implements Mode.
func (i *Insert) HandleKey(ev key.Event) []Action {
	switch ev.Key {
	case key.KeyEscape:
		return []Action{act(ActionSealUndo), switchTo(NameNormal)}
	case key.KeyEnter:
		return []Action{act(ActionInsert, "text", "\n")}
	case key.KeyTab:
		return []Action{act(ActionInsert, "text", "\t")}
	case key.KeyBackspace:
		return []Action{act(ActionDeleteBackward, "count", 1)}
	case key.KeyDelete:
		return []Action{act(ActionDeleteForward, "count", 1)}
	case key.KeyLeft:
		return []Action{moveAction("backward", "char", 1, false)}
	case key.KeyRight:
		return []Action{moveAction("forward", "char", 1, false)}
	case key.KeyUp:
		return []Action{moveAction("backward", "line", 1, false)}
	case key.KeyDown:
		return []Action{moveAction("forward", "line", 1, false)}
	case key.KeyHome:
		return []Action{act(ActionCursorLineStart)}
	case key.KeyEnd:
		return []Action{act(ActionCursorLineEnd)}
	}
	if ev.IsChar() {
		return []Action{act(ActionInsert, "text", string(ev.Rune))}
	}
	return []Action{}
}
