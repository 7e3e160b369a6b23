// Package history implements the reversible-edit log: immutable operations,
// word-grouped undo units, and the undo/redo stacks.
package history

import (
	"strings"
	"time"

	"github.com/dshills/loom/internal/engine/buffer"
	"github.com/dshills/loom/internal/engine/cursor"
)

// Aliases for the engine coordinate types.
type (
	ByteOffset = buffer.ByteOffset
	Range      = buffer.Range
	Selection  = cursor.Selection
)

// Operation is the record of one atomic change, carrying enough information
// to construct its own inverse. Immutable once recorded.
type Operation struct {
	// Range is the affected range in the pre-application document.
	Range Range
	// OldText is the text the operation removed.
	OldText string
	// NewText is the text the operation inserted.
	NewText string
	// At is when the operation was recorded.
	At time.Time
}

// FromApplied builds an Operation from a buffer's applied edit.
func FromApplied(a buffer.AppliedEdit) Operation {
	return Operation{
		Range:   a.OldRange,
		OldText: a.OldText,
		NewText: a.NewText,
		At:      time.Now(),
	}
}

// IsInsert returns true for a pure insertion.
func (op Operation) IsInsert() bool {
	return op.Range.IsEmpty() && op.NewText != ""
}

// IsDelete returns true for a pure deletion.
func (op Operation) IsDelete() bool {
	return !op.Range.IsEmpty() && op.NewText == ""
}

// NewRange is the range covering NewText in the post-application document.
func (op Operation) NewRange() Range {
	return Range{Start: op.Range.Start, End: op.Range.Start + ByteOffset(len(op.NewText))}
}

// Invert returns the edit that reverses this operation. The edit is valid
// in the document state immediately after the operation was applied.
func (op Operation) Invert() buffer.Edit {
	return buffer.Edit{Range: op.NewRange(), NewText: op.OldText}
}

// Reapply returns the edit that re-performs this operation. Valid in the
// document state immediately before the operation was applied.
func (op Operation) Reapply() buffer.Edit {
	return buffer.Edit{Range: op.Range, NewText: op.NewText}
}

// isWordRun reports whether s is a non-empty run with no whitespace, the
// unit the grouping policy merges on.
func isWordRun(s string) bool {
	return s != "" && strings.IndexFunc(s, isSpace) < 0
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
