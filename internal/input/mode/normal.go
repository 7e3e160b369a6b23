package mode

import (
	"github.com/dshills/loom/internal/input/key"
	"github.com/dshills/loom/internal/input/vim"
)

// Normal is the default mode: motions, operators, and entry points into the
// other modes. Unrecognized keys are consumed without effect.
type Normal struct {
	parser *vim.Parser
}

// NewNormal creates the normal mode.
func NewNormal() *Normal {
	return &Normal{parser: vim.NewParser()}
}

// Name implements Mode.
func (n *Normal) Name() string { return NameNormal }

// DisplayName implements Mode.
func (n *Normal) DisplayName() string { return "NORMAL" }

// Enter implements Mode.
func (n *Normal) Enter() {
	n.parser.Reset()
}

// Exit implements Mode.
func (n *Normal) Exit() {
	n.parser.Reset()
}

// HandleKey implements Mode.
func (n *Normal) HandleKey(ev key.Event) []Action {
	if ev.IsCtrl('r') {
		n.parser.Reset()
		return []Action{act(ActionRedo)}
	}

	cmd, status := n.parser.Feed(ev)
	switch status {
	case vim.StatusPending:
		return []Action{}
	case vim.StatusInvalid:
		return []Action{}
	case vim.StatusComplete:
		if cmd.Operator != 0 {
			return []Action{act(ActionOperator,
				"op", string(cmd.Operator),
				"motion", string(cmd.Motion),
				"count", cmd.Count,
				"linewise", cmd.Linewise,
			)}
		}
		return motionActions(cmd.Motion, cmd.Count, false)
	case vim.StatusPassthrough:
		return n.passthrough(cmd)
	}
	return []Action{}
}

// passthrough handles keys outside count/operator sequences.
func (n *Normal) passthrough(cmd vim.Command) []Action {
	ev := cmd.Key
	if ev.Key.IsSpecial() {
		switch ev.Key {
		case key.KeyLeft:
			return []Action{moveAction("backward", "char", cmd.Count, false)}
		case key.KeyRight:
			return []Action{moveAction("forward", "char", cmd.Count, false)}
		case key.KeyUp:
			return []Action{moveAction("backward", "line", cmd.Count, false)}
		case key.KeyDown:
			return []Action{moveAction("forward", "line", cmd.Count, false)}
		case key.KeyHome:
			return []Action{act(ActionCursorLineStart)}
		case key.KeyEnd:
			return []Action{act(ActionCursorLineEnd)}
		case key.KeyDelete:
			return []Action{act(ActionDeleteForward, "count", cmd.Count)}
		}
		return []Action{}
	}

	switch ev.Rune {
	case 'i':
		return []Action{switchTo(NameInsert)}
	case 'a':
		return []Action{
			moveAction("forward", "char", 1, false),
			switchTo(NameInsert),
		}
	case 'I':
		return []Action{act(ActionCursorLineStart), switchTo(NameInsert)}
	case 'A':
		return []Action{act(ActionCursorLineEnd), switchTo(NameInsert)}
	case 'o':
		return []Action{
			act(ActionCursorLineEnd),
			switchTo(NameInsert),
			act(ActionInsert, "text", "\n"),
		}
	case 'O':
		return []Action{
			act(ActionCursorLineStart),
			switchTo(NameInsert),
			act(ActionInsert, "text", "\n"),
			moveAction("backward", "char", 1, false),
		}
	case 'x':
		return []Action{act(ActionDeleteForward, "count", cmd.Count)}
	case 'p':
		return []Action{act(ActionPaste, "count", cmd.Count, "before", false)}
	case 'P':
		return []Action{act(ActionPaste, "count", cmd.Count, "before", true)}
	case 'u':
		return []Action{act(ActionUndo, "count", cmd.Count)}
	case 'v':
		return []Action{switchTo(NameVisual)}
	case ':':
		return []Action{switchTo(NameCommand)}
	}
	return []Action{}
}

// motionActions maps a motion rune to cursor actions.
func motionActions(motion rune, count int, extend bool) []Action {
	switch motion {
	case 'h':
		return []Action{moveAction("backward", "char", count, extend)}
	case 'l':
		return []Action{moveAction("forward", "char", count, extend)}
	case 'k':
		return []Action{moveAction("backward", "line", count, extend)}
	case 'j':
		return []Action{moveAction("forward", "line", count, extend)}
	case 'w':
		return []Action{moveAction("forward", "word", count, extend)}
	case 'b':
		return []Action{moveAction("backward", "word", count, extend)}
	case 'e':
		return []Action{moveAction("forward", "word_end", count, extend)}
	case '0':
		return []Action{act(ActionCursorLineStart, "extend", extend)}
	case '$':
		return []Action{act(ActionCursorLineEnd, "extend", extend)}
	}
	return []Action{}
}

func moveAction(dir, unit string, count int, extend bool) Action {
	return act(ActionCursorMove,
		"dir", dir, "unit", unit, "count", count, "extend", extend)
}
