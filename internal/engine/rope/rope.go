// Package rope implements an immutable balanced rope for text storage.
//
// Every operation returns a new Rope; existing values are never modified.
// This makes snapshots free and allows concurrent readers (the highlight
// pipeline) to hold a rope while the editing path keeps mutating the buffer.
// Byte length and newline counts are cached per node, so offset and
// line/column lookups are O(log n).
package rope

import (
	"strings"
)

// ByteOffset is a byte position within the rope.
type ByteOffset = int64

// Point is a 0-indexed line/column position. Column is in bytes from the
// start of the line.
type Point struct {
	Line   uint32
	Column uint32
}

// Rope is an immutable text rope.
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() Rope {
	return Rope{root: emptyLeaf}
}

// FromString builds a rope from s.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return Rope{root: buildLeaves(s)}
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.bytes
}

// IsEmpty reports whether the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// LineCount returns the number of lines. An empty rope has one line.
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.newlines + 1
}

// String materializes the full text.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.root.bytes))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in [start, end). Out-of-range bounds are clamped.
func (r Rope) Slice(start, end ByteOffset) string {
	if r.root == nil {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.root.bytes {
		end = r.root.bytes
	}
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at offset, or false if offset is out of range.
func (r Rope) ByteAt(offset ByteOffset) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.root.bytes {
		return 0, false
	}
	n := r.root
	for !n.isLeaf() {
		if offset < n.left.bytes {
			n = n.left
		} else {
			offset -= n.left.bytes
			n = n.right
		}
	}
	return n.text[offset], true
}

// Insert returns a rope with text inserted at offset. Offset is clamped to
// [0, Len]; callers validate bounds before calling.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if offset < 0 {
		offset = 0
	}
	if offset > r.Len() {
		offset = r.Len()
	}
	left, right := split(r.root, offset)
	mid := buildLeaves(text)
	return Rope{root: rebalance(concat(concat(left, mid), right))}
}

// Delete returns a rope with [start, end) removed. Bounds are clamped.
func (r Rope) Delete(start, end ByteOffset) Rope {
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	if start >= end {
		return r
	}
	left, rest := split(r.root, start)
	_, right := split(rest, end-start)
	return Rope{root: rebalance(concat(left, right))}
}

// Replace returns a rope with [start, end) replaced by text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	return r.Delete(start, end).Insert(start, text)
}

// LineStartOffset returns the byte offset of the first byte of line.
// Lines past the end return Len.
func (r Rope) LineStartOffset(line uint32) ByteOffset {
	if r.root == nil || line == 0 {
		return 0
	}
	if line > r.root.newlines {
		return r.root.bytes
	}
	// Start of line N is one past the (N-1)th newline.
	return findNthNewline(r.root, line-1) + 1
}

// LineEndOffset returns the byte offset just past the last byte of line,
// excluding the trailing newline.
func (r Rope) LineEndOffset(line uint32) ByteOffset {
	if r.root == nil {
		return 0
	}
	if line >= r.root.newlines {
		return r.root.bytes
	}
	return findNthNewline(r.root, line)
}

// LineText returns the text of line without its trailing newline.
func (r Rope) LineText(line uint32) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// LineLen returns the byte length of line without its trailing newline.
func (r Rope) LineLen(line uint32) ByteOffset {
	return r.LineEndOffset(line) - r.LineStartOffset(line)
}

// OffsetToPoint converts a byte offset to a line/column position.
// Offsets are clamped to [0, Len].
func (r Rope) OffsetToPoint(offset ByteOffset) Point {
	if r.root == nil || offset <= 0 {
		return Point{}
	}
	if offset > r.root.bytes {
		offset = r.root.bytes
	}
	line := newlinesBefore(r.root, offset)
	start := r.LineStartOffset(line)
	return Point{Line: line, Column: uint32(offset - start)}
}

// PointToOffset converts a line/column position to a byte offset.
// The column is clamped to the line length; lines past the end map to Len.
func (r Rope) PointToOffset(p Point) ByteOffset {
	if r.root == nil {
		return 0
	}
	if p.Line > r.root.newlines {
		return r.root.bytes
	}
	start := r.LineStartOffset(p.Line)
	end := r.LineEndOffset(p.Line)
	off := start + ByteOffset(p.Column)
	if off > end {
		off = end
	}
	return off
}

// Height returns the tree height, for balance diagnostics.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height)
}
