package buffer

import "fmt"

// Edit describes a text edit: replace Range with NewText. An insertion has
// an empty range; a deletion has empty NewText.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert creates an Edit inserting text at offset.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit deleting [start, end).
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// IsInsert returns true for a pure insertion.
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewText != ""
}

// IsDelete returns true for a pure deletion.
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// AppliedEdit is the record of a completed edit, carrying enough to undo it.
// OldText is the text the edit removed; NewRange covers NewText in the
// post-edit document.
type AppliedEdit struct {
	OldRange Range
	NewRange Range
	OldText  string
	NewText  string
}

// Invert returns the edit that undoes this one in the post-edit document.
func (a AppliedEdit) Invert() Edit {
	return Edit{Range: a.NewRange, NewText: a.OldText}
}

// Reapply returns the edit that redoes this one in the pre-edit document.
func (a AppliedEdit) Reapply() Edit {
	return Edit{Range: a.OldRange, NewText: a.NewText}
}

// Delta returns the change in buffer length.
func (a AppliedEdit) Delta() ByteOffset {
	return ByteOffset(len(a.NewText) - len(a.OldText))
}
