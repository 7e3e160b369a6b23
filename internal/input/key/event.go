package key

import (
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRune creates an event for an unmodified character key.
func NewRune(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// NewSpecial creates an event for a special key.
func NewSpecial(k Key) Event {
	return Event{Key: k}
}

// Ctrl creates an event for Ctrl plus a character.
func Ctrl(r rune) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: ModCtrl}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is an unmodified printable character.
// Shift alone does not count as a modifier for character keys; it already
// changed the character.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) &&
		!e.Modifiers.Has(ModCtrl) && !e.Modifiers.Has(ModAlt)
}

// Is reports whether the event is the given unmodified character.
func (e Event) Is(r rune) bool {
	return e.IsChar() && e.Rune == r
}

// IsCtrl reports whether the event is Ctrl plus the given character.
func (e Event) IsCtrl(r rune) bool {
	return e.Key == KeyRune && e.Rune == r && e.Modifiers.HasCtrl()
}

// String returns a canonical representation like "a", "C-r", or "Escape".
func (e Event) String() string {
	var b strings.Builder
	if e.Modifiers.HasCtrl() {
		b.WriteString("C-")
	}
	if e.Modifiers.HasAlt() {
		b.WriteString("A-")
	}
	if e.Key == KeyRune {
		b.WriteRune(e.Rune)
	} else {
		b.WriteString(e.Key.String())
	}
	return b.String()
}
