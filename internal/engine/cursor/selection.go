// Package cursor provides the cursor and selection model: selections over
// byte offsets, multi-cursor sets, movement by semantic units, and the
// transforms that keep every cursor valid across buffer mutations.
package cursor

import (
	"fmt"

	"github.com/dshills/loom/internal/engine/buffer"
)

// Aliases for the buffer coordinate types.
type (
	ByteOffset = buffer.ByteOffset
	Point      = buffer.Point
	Range      = buffer.Range
	Edit       = buffer.Edit
)

// Selection is a range of selected text. Anchor is where the selection
// started; Head is the cursor (where typing occurs). Anchor == Head is a
// bare cursor. Selection is an immutable value type.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

// New creates a selection from anchor to head.
func New(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// At creates a collapsed selection (a cursor) at offset.
func At(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lower bound.
func (s Selection) Start() ByteOffset {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound.
func (s Selection) End() ByteOffset {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Len returns the selection length in bytes.
func (s Selection) Len() ByteOffset {
	return s.End() - s.Start()
}

// Range returns the selection as a forward range.
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Extend returns a selection with the same anchor and head at offset.
func (s Selection) Extend(offset ByteOffset) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// MoveTo returns a collapsed selection at offset.
func (s Selection) MoveTo(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// Collapse collapses the selection to its head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head}
}

// Contains returns true if offset lies inside the selection extent.
func (s Selection) Contains(offset ByteOffset) bool {
	return offset >= s.Start() && offset < s.End()
}

// Touches returns true if the selections overlap or are adjacent.
func (s Selection) Touches(other Selection) bool {
	return s.Start() <= other.End() && other.Start() <= s.End()
}

// Merge returns a forward selection covering both extents.
func (s Selection) Merge(other Selection) Selection {
	start := s.Start()
	if other.Start() < start {
		start = other.Start()
	}
	end := s.End()
	if other.End() > end {
		end = other.End()
	}
	return Selection{Anchor: start, Head: end}
}

// Clamp returns the selection clamped to [0, maxOffset].
func (s Selection) Clamp(maxOffset ByteOffset) Selection {
	clamp := func(o ByteOffset) ByteOffset {
		if o < 0 {
			return 0
		}
		if o > maxOffset {
			return maxOffset
		}
		return o
	}
	return Selection{Anchor: clamp(s.Anchor), Head: clamp(s.Head)}
}

// String returns a human-readable representation.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d..%d)", s.Anchor, s.Head)
}
