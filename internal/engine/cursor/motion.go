package cursor

import (
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/dshills/loom/internal/engine/buffer"
)

// Direction of a motion.
type Direction int8

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Unit is the semantic unit of a motion.
type Unit uint8

const (
	// UnitChar moves by one grapheme cluster.
	UnitChar Unit = iota
	// UnitWord moves by one word (a maximal run of non-whitespace).
	UnitWord
	// UnitLine moves by one line, preserving the goal column.
	UnitLine
)

// Move returns sel moved count times by unit in dir, clamped at document
// boundaries. Motion at a boundary is a no-op, never an error. goalCol is
// the sticky column for vertical motion; the returned goal column should be
// fed back into the next vertical move and reset (pass -1) after any
// horizontal one.
func Move(snap *buffer.Snapshot, sel Selection, dir Direction, unit Unit, count int, extend bool, goalCol int) (Selection, int) {
	if count < 1 {
		count = 1
	}
	head := sel.Head

	switch unit {
	case UnitChar:
		for i := 0; i < count; i++ {
			if dir == Forward {
				head = NextGrapheme(snap, head)
			} else {
				head = PrevGrapheme(snap, head)
			}
		}
		goalCol = -1
	case UnitWord:
		for i := 0; i < count; i++ {
			if dir == Forward {
				head = WordForward(snap, head)
			} else {
				head = WordBackward(snap, head)
			}
		}
		goalCol = -1
	case UnitLine:
		head, goalCol = moveVertical(snap, head, dir, count, goalCol)
	}

	if extend {
		return sel.Extend(head), goalCol
	}
	return sel.MoveTo(head), goalCol
}

// NextGrapheme returns the offset just past the grapheme cluster at offset.
// Clamps at the document end.
func NextGrapheme(snap *buffer.Snapshot, offset ByteOffset) ByteOffset {
	if offset >= snap.Len() {
		return snap.Len()
	}
	// A cluster is at most a handful of runes; a short lookahead window is
	// enough for uniseg to find the boundary.
	end := offset + 64
	if end > snap.Len() {
		end = snap.Len()
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(snap.TextRange(offset, end), -1)
	if cluster == "" {
		return offset + 1
	}
	return offset + ByteOffset(len(cluster))
}

// PrevGrapheme returns the offset of the grapheme cluster before offset.
// Clamps at the document start.
func PrevGrapheme(snap *buffer.Snapshot, offset ByteOffset) ByteOffset {
	if offset <= 0 {
		return 0
	}
	p := snap.OffsetToPoint(offset)
	lineStart := snap.LineStartOffset(p.Line)
	if offset == lineStart {
		// Step over the newline onto the previous line.
		return offset - 1
	}
	// Walk clusters from the line start; the last boundary before offset is
	// the previous grapheme.
	rest := snap.TextRange(lineStart, offset)
	prev := lineStart
	for len(rest) > 0 {
		cluster, r, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
		next := prev + ByteOffset(len(cluster))
		if next >= offset {
			break
		}
		prev = next
		rest = r
	}
	return prev
}

// WordForward returns the offset of the start of the next word: skip the
// rest of the current non-whitespace run, then any whitespace.
func WordForward(snap *buffer.Snapshot, offset ByteOffset) ByteOffset {
	max := snap.Len()
	for offset < max && !isWhitespaceAt(snap, offset) {
		offset = NextGrapheme(snap, offset)
	}
	for offset < max && isWhitespaceAt(snap, offset) {
		offset = NextGrapheme(snap, offset)
	}
	return offset
}

// WordBackward returns the offset of the start of the previous word: skip
// whitespace backwards, then back to the start of the preceding run.
func WordBackward(snap *buffer.Snapshot, offset ByteOffset) ByteOffset {
	for offset > 0 && isWhitespaceAt(snap, PrevGrapheme(snap, offset)) {
		offset = PrevGrapheme(snap, offset)
	}
	for offset > 0 && !isWhitespaceAt(snap, PrevGrapheme(snap, offset)) {
		offset = PrevGrapheme(snap, offset)
	}
	return offset
}

// WordEnd returns the offset just past the end of the current or next word.
func WordEnd(snap *buffer.Snapshot, offset ByteOffset) ByteOffset {
	max := snap.Len()
	for offset < max && isWhitespaceAt(snap, offset) {
		offset = NextGrapheme(snap, offset)
	}
	for offset < max && !isWhitespaceAt(snap, offset) {
		offset = NextGrapheme(snap, offset)
	}
	return offset
}

func isWhitespaceAt(snap *buffer.Snapshot, offset ByteOffset) bool {
	r, size := snap.RuneAt(offset)
	if size == 0 {
		return false
	}
	return unicode.IsSpace(r)
}

// moveVertical moves count lines up or down, sticking to goalCol where the
// target line is long enough. The head may sit one past the final column of
// its line (append position).
func moveVertical(snap *buffer.Snapshot, head ByteOffset, dir Direction, count int, goalCol int) (ByteOffset, int) {
	p := snap.OffsetToPoint(head)
	if goalCol < 0 {
		goalCol = int(p.Column)
	}

	line := int(p.Line) + int(dir)*count
	if line < 0 {
		line = 0
	}
	if last := int(snap.LineCount()) - 1; line > last {
		line = last
	}

	target := buffer.Point{Line: uint32(line), Column: uint32(goalCol)}
	return snap.PointToOffset(target), goalCol
}

// LineStart returns the offset of the first byte of the head's line.
func LineStart(snap *buffer.Snapshot, offset ByteOffset) ByteOffset {
	return snap.LineStartOffset(snap.OffsetToPoint(offset).Line)
}

// LineEnd returns the offset just past the last byte of the head's line
// (before the newline).
func LineEnd(snap *buffer.Snapshot, offset ByteOffset) ByteOffset {
	return snap.LineEndOffset(snap.OffsetToPoint(offset).Line)
}
