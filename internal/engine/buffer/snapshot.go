package buffer

import (
	"github.com/dshills/loom/internal/engine/rope"
)

// Snapshot is a read-only view of a buffer at a point in time. It is safe
// for concurrent use and never changes, even as the source buffer does.
// The highlight pipeline reads only snapshots.
type Snapshot struct {
	rope       rope.Rope
	revisionID RevisionID
	tabWidth   int
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return s.rope.String()
}

// TextRange returns text in the given byte range.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	return s.rope.Slice(start, end)
}

// Len returns the total byte length.
func (s *Snapshot) Len() ByteOffset {
	return s.rope.Len()
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return s.rope.LineCount()
}

// LineText returns the text of a line without its newline.
func (s *Snapshot) LineText(line uint32) string {
	return s.rope.LineText(line)
}

// LineStartOffset returns the byte offset of the start of a line.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset {
	return s.rope.LineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line.
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset {
	return s.rope.LineEndOffset(line)
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	p := s.rope.OffsetToPoint(offset)
	return Point{Line: p.Line, Column: p.Column}
}

// PointToOffset converts line/column to a byte offset.
func (s *Snapshot) PointToOffset(point Point) ByteOffset {
	return s.rope.PointToOffset(rope.Point{Line: point.Line, Column: point.Column})
}

// RuneAt returns the rune starting at the given byte offset.
func (s *Snapshot) RuneAt(offset ByteOffset) (rune, int) {
	return runeAt(s.rope, offset)
}

// RevisionID returns the revision this snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// TabWidth returns the tab width the snapshot was taken with.
func (s *Snapshot) TabWidth() int {
	return s.tabWidth
}
