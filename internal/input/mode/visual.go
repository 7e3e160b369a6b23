package mode

import (
	"github.com/dshills/loom/internal/input/key"
	"github.com/dshills/loom/internal/input/vim"
)

// Visual mode: motions extend the selection from its fixed anchor, and
// operators act on the selected range immediately.
type Visual struct {
	parser *vim.Parser
}

// NewVisual creates the visual mode.
func NewVisual() *Visual {
	return &Visual{parser: vim.NewParser()}
}

// Name implements Mode.
func (v *Visual) Name() string { return NameVisual }

// DisplayName implements Mode.
func (v *Visual) DisplayName() string { return "VISUAL" }

// Enter implements Mode.
func (v *Visual) Enter() {
	v.parser.Reset()
}

// Exit implements Mode.
func (v *Visual) Exit() {
	v.parser.Reset()
}

// HandleKey implements Mode.
func (v *Visual) HandleKey(ev key.Event) []Action {
	if ev.Key == key.KeyEscape {
		v.parser.Reset()
		return []Action{act(ActionCollapseSelections), switchTo(NameNormal)}
	}

	// Operators act on the selection right away; check before the parser
	// would treat them as operator-pending. A pending count still applies
	// to motions only, so it is abandoned here.
	if ev.IsChar() && vim.IsOperator(ev.Rune) && !v.parser.Pending() {
		v.parser.Reset()
		switch ev.Rune {
		case 'd':
			return []Action{
				act(ActionYankSelections),
				act(ActionDeleteSelections),
				switchTo(NameNormal),
			}
		case 'c':
			return []Action{
				act(ActionYankSelections),
				act(ActionDeleteSelections),
				switchTo(NameInsert),
			}
		case 'y':
			return []Action{
				act(ActionYankSelections),
				act(ActionCollapseSelections),
				switchTo(NameNormal),
			}
		}
	}

	cmd, status := v.parser.Feed(ev)
	switch status {
	case vim.StatusComplete:
		if cmd.Operator != 0 {
			// Operators were intercepted above; a composed one here means
			// the sequence started with a count. Drop it.
			return []Action{}
		}
		return motionActions(cmd.Motion, cmd.Count, true)
	case vim.StatusPassthrough:
		switch cmd.Key.Key {
		case key.KeyLeft:
			return []Action{moveAction("backward", "char", cmd.Count, true)}
		case key.KeyRight:
			return []Action{moveAction("forward", "char", cmd.Count, true)}
		case key.KeyUp:
			return []Action{moveAction("backward", "line", cmd.Count, true)}
		case key.KeyDown:
			return []Action{moveAction("forward", "line", cmd.Count, true)}
		}
		if cmd.Key.Is('v') {
			return []Action{act(ActionCollapseSelections), switchTo(NameNormal)}
		}
		return []Action{}
	}
	return []Action{}
}
