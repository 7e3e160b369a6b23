// Package vim implements the pending-command parser for normal and visual
// mode: count prefixes and operator composition (d/c/y plus a motion, or a
// doubled operator for the line-wise form).
package vim

import (
	"strings"

	"github.com/dshills/loom/internal/input/key"
)

// ParseStatus indicates the result of feeding one key to the parser.
type ParseStatus uint8

const (
	// StatusPending indicates more input is needed.
	StatusPending ParseStatus = iota

	// StatusComplete indicates a complete command was parsed.
	StatusComplete

	// StatusInvalid indicates the sequence was abandoned; state is reset.
	StatusInvalid

	// StatusPassthrough indicates the key is not part of a count/operator
	// sequence; the mode handles it, with any accumulated count attached.
	StatusPassthrough
)

// String returns a string representation of the status.
func (s ParseStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusInvalid:
		return "invalid"
	case StatusPassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// Command is a parsed normal-mode command.
type Command struct {
	// Count is the effective repeat count, always >= 1.
	Count int

	// Operator is 'd', 'c', or 'y'; zero for a bare motion.
	Operator rune

	// Motion is the motion rune; zero for the line-wise form.
	Motion rune

	// Linewise is true for doubled operators (dd, cc, yy).
	Linewise bool

	// Key is the event that completed or passed through.
	Key key.Event
}

const operators = "dcy"
const motions = "hjkl0$wbe"

// IsOperator reports whether r is an operator rune.
func IsOperator(r rune) bool {
	return strings.ContainsRune(operators, r)
}

// IsMotion reports whether r is a motion rune.
func IsMotion(r rune) bool {
	return strings.ContainsRune(motions, r)
}

// Parser is the incremental normal-mode command parser. Feed it key events
// one at a time; it is not safe for concurrent use.
type Parser struct {
	count    countState // count before the operator
	opCount  countState // count after the operator
	operator rune
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// Pending returns true if a sequence is partially entered.
func (p *Parser) Pending() bool {
	return p.count.active || p.operator != 0
}

// Reset abandons any partial sequence.
func (p *Parser) Reset() {
	p.count.reset()
	p.opCount.reset()
	p.operator = 0
}

// Feed advances the parser with one key event.
func (p *Parser) Feed(ev key.Event) (Command, ParseStatus) {
	// Escape abandons whatever is pending.
	if ev.Key == key.KeyEscape {
		p.Reset()
		return Command{}, StatusInvalid
	}
	if !ev.IsChar() {
		// Special keys and chords never continue a sequence.
		if p.Pending() {
			p.Reset()
			return Command{}, StatusInvalid
		}
		return Command{Count: 1, Key: ev}, StatusPassthrough
	}

	r := ev.Rune

	if p.operator == 0 {
		if p.count.accumulate(r) {
			return Command{}, StatusPending
		}
		if IsOperator(r) {
			p.operator = r
			return Command{}, StatusPending
		}
		if IsMotion(r) {
			cmd := Command{Count: p.count.get(), Motion: r, Key: ev}
			p.Reset()
			return cmd, StatusComplete
		}
		// Not ours: Hand it to the mode with the count attached.
		cmd := Command{Count: p.count.get(), Key: ev}
		p.Reset()
		return cmd, StatusPassthrough
	}

	// Operator pending.
	if p.opCount.accumulate(r) {
		return Command{}, StatusPending
	}
	if r == p.operator {
		// Doubled operator is the line-wise form.
		cmd := Command{
			Count:    p.count.get() * p.opCount.get(),
			Operator: p.operator,
			Linewise: true,
			Key:      ev,
		}
		p.Reset()
		return cmd, StatusComplete
	}
	if IsMotion(r) {
		// Counts multiply: 2d3w deletes six words.
		cmd := Command{
			Count:    p.count.get() * p.opCount.get(),
			Operator: p.operator,
			Motion:   r,
			Key:      ev,
		}
		p.Reset()
		return cmd, StatusComplete
	}

	p.Reset()
	return Command{}, StatusInvalid
}
