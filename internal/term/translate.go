// Package term is the tcell terminal frontend: it translates terminal
// events into key events, renders the buffer with highlight styling, and
// runs the main loop.
package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/loom/internal/input/key"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
}

// TranslateKey converts a tcell key event to the editor's representation.
// Unrepresentable events come back as KeyNone and should be ignored.
func TranslateKey(ev *tcell.EventKey) key.Event {
	if k, ok := specialKeys[ev.Key()]; ok {
		out := key.NewSpecial(k)
		out.Modifiers = translateMods(ev.Modifiers())
		return out
	}

	// Control characters arrive as dedicated tcell keys. Enter, Tab, and
	// Backspace alias into this range and were handled above.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		return key.Ctrl(rune('a' + ev.Key() - tcell.KeyCtrlA))
	}

	if ev.Key() == tcell.KeyRune {
		out := key.NewRune(ev.Rune())
		out.Modifiers = translateMods(ev.Modifiers())
		return out
	}

	return key.Event{Key: key.KeyNone}
}

func translateMods(m tcell.ModMask) key.Modifier {
	var out key.Modifier
	if m&tcell.ModShift != 0 {
		out |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= key.ModAlt
	}
	return out
}
