// Package buffer provides a thread-safe text buffer built on the rope data
// structure. It is the single owner of document content and the authority
// for byte-offset and line/column coordinate conversion.
package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dshills/loom/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer wraps a Rope with validation, revision tracking and line-ending
// normalization. All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	rope       rope.Rope
	revisionID RevisionID
	tabWidth   int
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		revisionID: NewRevisionID(),
		tabWidth:   4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content. Line endings are
// normalized to LF.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.rope = rope.FromString(normalizeLineEndings(s))
	return b
}

// NewFromReader creates a buffer from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR to LF. CRLF split across insert
// boundaries is not rejoined; callers insert whole runs.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read operations

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(start, end)
}

// Len returns the total byte length.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// LineText returns the text of a line without its newline.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineText(line)
}

// LineLen returns the byte length of a line without its newline.
func (b *Buffer) LineLen(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int(b.rope.LineLen(line))
}

// RuneAt returns the rune starting at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return runeAt(b.rope, offset)
}

func runeAt(r rope.Rope, offset ByteOffset) (rune, int) {
	if offset < 0 || offset >= r.Len() {
		return utf8.RuneError, 0
	}
	end := offset + utf8.UTFMax
	if end > r.Len() {
		end = r.Len()
	}
	return utf8.DecodeRuneInString(r.Slice(offset, end))
}

// Coordinate conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := b.rope.OffsetToPoint(offset)
	return Point{Line: p.Line, Column: p.Column}
}

// PointToOffset converts line/column to a byte offset.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.PointToOffset(rope.Point{Line: point.Line, Column: point.Column})
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineEndOffset(line)
}

// Write operations

// Insert inserts text at offset and returns the applied edit.
// Fails with ErrOffsetOutOfRange if offset exceeds the document extent.
func (b *Buffer) Insert(offset ByteOffset, text string) (AppliedEdit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > b.rope.Len() {
		return AppliedEdit{}, ErrOffsetOutOfRange
	}

	text = normalizeLineEndings(text)
	b.rope = b.rope.Insert(offset, text)
	b.revisionID = NewRevisionID()

	return AppliedEdit{
		OldRange: Range{Start: offset, End: offset},
		NewRange: Range{Start: offset, End: offset + ByteOffset(len(text))},
		NewText:  text,
	}, nil
}

// Delete removes [start, end) and returns the removed text along with the
// applied edit (whose inverse restores it). Fails with ErrRangeInvalid on
// an invalid range; callers pre-validate rather than rely on clamping.
func (b *Buffer) Delete(start, end ByteOffset) (AppliedEdit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > b.rope.Len() {
		return AppliedEdit{}, ErrRangeInvalid
	}

	oldText := b.rope.Slice(start, end)
	b.rope = b.rope.Delete(start, end)
	b.revisionID = NewRevisionID()

	return AppliedEdit{
		OldRange: Range{Start: start, End: end},
		NewRange: Range{Start: start, End: start},
		OldText:  oldText,
	}, nil
}

// Replace replaces [start, end) with text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (AppliedEdit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > b.rope.Len() {
		return AppliedEdit{}, ErrRangeInvalid
	}

	oldText := b.rope.Slice(start, end)
	text = normalizeLineEndings(text)
	b.rope = b.rope.Replace(start, end, text)
	b.revisionID = NewRevisionID()

	return AppliedEdit{
		OldRange: Range{Start: start, End: end},
		NewRange: Range{Start: start, End: start + ByteOffset(len(text))},
		OldText:  oldText,
		NewText:  text,
	}, nil
}

// ApplyEdit applies an Edit, dispatching on its shape.
func (b *Buffer) ApplyEdit(edit Edit) (AppliedEdit, error) {
	return b.Replace(edit.Range.Start, edit.Range.End, edit.NewText)
}

// State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// Snapshot returns a read-only view of the current state. The underlying
// rope is immutable, so the snapshot stays consistent while the buffer
// keeps changing.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		rope:       b.rope,
		revisionID: b.revisionID,
		tabWidth:   b.tabWidth,
	}
}
