package mode

import (
	"strings"

	"github.com/dshills/loom/internal/input/key"
)

// Command mode accumulates an ex-style command line after ':'. Enter
// dispatches the line, Escape cancels, backspace on an empty line cancels
// as well.
type Command struct {
	line []rune
}

// NewCommand creates the command mode.
func NewCommand() *Command {
	return &Command{}
}

// Name implements Mode.
func (c *Command) Name() string { return NameCommand }

// DisplayName implements Mode.
func (c *Command) DisplayName() string { return "COMMAND" }

// Enter implements Mode.
func (c *Command) Enter() {
	c.line = c.line[:0]
}

// Exit implements Mode.
func (c *Command) Exit() {
	c.line = c.line[:0]
}

// Line returns the partial command line, with the ':' prompt, for the
// status bar.
func (c *Command) Line() string {
	var b strings.Builder
	b.WriteByte(':')
	b.WriteString(string(c.line))
	return b.String()
}

// HandleKey implements Mode.
func (c *Command) HandleKey(ev key.Event) []Action {
	switch ev.Key {
	case key.KeyEscape:
		return []Action{switchTo(NameNormal)}
	case key.KeyEnter:
		line := strings.TrimSpace(string(c.line))
		if line == "" {
			return []Action{switchTo(NameNormal)}
		}
		return []Action{
			act(ActionExecuteEx, "line", line),
			switchTo(NameNormal),
		}
	case key.KeyBackspace:
		if len(c.line) == 0 {
			return []Action{switchTo(NameNormal)}
		}
		c.line = c.line[:len(c.line)-1]
		return []Action{}
	}
	if ev.IsChar() {
		c.line = append(c.line, ev.Rune)
	}
	return []Action{}
}
