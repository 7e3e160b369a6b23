package engine

import (
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/loom/internal/engine/buffer"
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// AppliedEdit contains information about a completed edit.
	AppliedEdit = buffer.AppliedEdit

	// Selection represents a cursor selection.
	Selection = cursor.Selection

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID

	// Snapshot is a read-only view of the buffer at a revision.
	Snapshot = buffer.Snapshot

	// Direction is a motion direction.
	Direction = cursor.Direction

	// Unit is a motion granularity.
	Unit = cursor.Unit
)

// Re-export motion constants.
const (
	Backward = cursor.Backward
	Forward  = cursor.Forward

	UnitChar = cursor.UnitChar
	UnitWord = cursor.UnitWord
	UnitLine = cursor.UnitLine
)

// ChangeFunc is invoked after every committed edit with a snapshot of the
// post-edit buffer. Callbacks run outside the engine lock and must not
// block for long; slow consumers should hand the snapshot off to their own
// goroutine.
type ChangeFunc func(*Snapshot)

// Engine is the main facade for the editor core. It combines the text
// buffer, cursor set, and undo history into a unified, thread-safe API.
//
// All operations are safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	id uuid.UUID

	buf     *buffer.Buffer
	cursors *cursor.Set
	history *history.History

	// goalCol is the column vertical motion aims for; -1 when the last
	// motion was not vertical.
	goalCol int

	tabWidth      int
	maxUndoGroups int
	readOnly      bool

	initContent string

	listeners []ChangeFunc
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:            uuid.New(),
		tabWidth:      DefaultTabWidth,
		maxUndoGroups: DefaultMaxUndoGroups,
		goalCol:       -1,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.initContent != "" {
		e.buf = buffer.NewFromString(e.initContent, buffer.WithTabWidth(e.tabWidth))
	} else {
		e.buf = buffer.New(buffer.WithTabWidth(e.tabWidth))
	}
	e.cursors = cursor.NewSet(0)
	e.history = history.New(e.maxUndoGroups)
	return e
}

// NewFromReader creates an Engine whose content is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := &Engine{
		id:            uuid.New(),
		tabWidth:      DefaultTabWidth,
		maxUndoGroups: DefaultMaxUndoGroups,
		goalCol:       -1,
	}
	for _, opt := range opts {
		opt(e)
	}

	var err error
	e.buf, err = buffer.NewFromReader(r, buffer.WithTabWidth(e.tabWidth))
	if err != nil {
		return nil, err
	}
	e.cursors = cursor.NewSet(0)
	e.history = history.New(e.maxUndoGroups)
	return e, nil
}

// ID returns the unique identifier of this engine instance.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// TextRange returns text in the given byte range.
func (e *Engine) TextRange(start, end ByteOffset) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TextRange(start, end)
}

// Len returns the total byte length of the buffer.
func (e *Engine) Len() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// IsEmpty returns true if the buffer is empty.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsEmpty()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (e *Engine) LineText(line uint32) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineText(line)
}

// LineLen returns the length of a specific line in bytes (without newline).
func (e *Engine) LineLen(line uint32) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineLen(line)
}

// RuneAt returns the rune at the given byte offset.
func (e *Engine) RuneAt(offset ByteOffset) (rune, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RuneAt(offset)
}

// OffsetToPoint converts a byte offset to line/column.
func (e *Engine) OffsetToPoint(offset ByteOffset) Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.OffsetToPoint(offset)
}

// PointToOffset converts line/column to byte offset.
func (e *Engine) PointToOffset(point Point) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.PointToOffset(point)
}

// LineStartOffset returns the byte offset of the start of a line.
func (e *Engine) LineStartOffset(line uint32) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (e *Engine) LineEndOffset(line uint32) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEndOffset(line)
}

// RevisionID returns the current buffer revision.
func (e *Engine) RevisionID() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RevisionID()
}

// Snapshot returns a read-only snapshot of the current buffer state.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// TabWidth returns the configured tab width.
func (e *Engine) TabWidth() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TabWidth()
}

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at the given offset, shifting cursors and recording
// the edit for undo.
func (e *Engine) Insert(offset ByteOffset, text string) error {
	return e.write(func() error {
		return e.applyLocked(buffer.NewInsert(offset, text))
	})
}

// Delete removes text in [start, end).
func (e *Engine) Delete(start, end ByteOffset) error {
	return e.write(func() error {
		return e.applyLocked(buffer.NewDelete(start, end))
	})
}

// Replace replaces text in [start, end) with new text.
func (e *Engine) Replace(start, end ByteOffset, text string) error {
	return e.write(func() error {
		return e.applyLocked(Edit{Range: Range{Start: start, End: end}, NewText: text})
	})
}

// InsertAtCursors inserts text at every cursor, replacing any active
// selections. This is the primitive behind insert-mode typing.
func (e *Engine) InsertAtCursors(text string) error {
	return e.write(func() error {
		// Apply highest-offset first so earlier selections stay valid.
		sels := e.cursors.All()
		for i := len(sels) - 1; i >= 0; i-- {
			// Empty text over an empty selection would record a no-op
			// edit, bumping the revision for nothing.
			if text == "" && sels[i].IsEmpty() {
				continue
			}
			edit := Edit{Range: sels[i].Range(), NewText: text}
			if err := e.applyLocked(edit); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteBackward deletes the grapheme cluster before each cursor, or the
// selection contents where a selection is active. Cursors at offset zero
// are left alone.
func (e *Engine) DeleteBackward() error {
	return e.write(func() error {
		sels := e.cursors.All()
		for i := len(sels) - 1; i >= 0; i-- {
			sel := sels[i]
			r := sel.Range()
			if sel.IsEmpty() {
				start := cursor.PrevGrapheme(e.buf.Snapshot(), sel.Head)
				if start == sel.Head {
					continue
				}
				r = Range{Start: start, End: sel.Head}
			}
			if err := e.applyLocked(buffer.NewDelete(r.Start, r.End)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForward deletes the grapheme cluster after each cursor, or the
// selection contents where a selection is active.
func (e *Engine) DeleteForward() error {
	return e.write(func() error {
		sels := e.cursors.All()
		for i := len(sels) - 1; i >= 0; i-- {
			sel := sels[i]
			r := sel.Range()
			if sel.IsEmpty() {
				end := cursor.NextGrapheme(e.buf.Snapshot(), sel.Head)
				if end == sel.Head {
					continue
				}
				r = Range{Start: sel.Head, End: end}
			}
			if err := e.applyLocked(buffer.NewDelete(r.Start, r.End)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSelections deletes the contents of every non-empty selection and
// collapses the cursors. Buffers with only bare cursors are unchanged.
func (e *Engine) DeleteSelections() error {
	return e.write(func() error {
		sels := e.cursors.All()
		for i := len(sels) - 1; i >= 0; i-- {
			if sels[i].IsEmpty() {
				continue
			}
			r := sels[i].Range()
			if err := e.applyLocked(buffer.NewDelete(r.Start, r.End)); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetContent replaces all content, resets cursors, and clears history.
func (e *Engine) SetContent(content string) error {
	return e.write(func() error {
		if _, err := e.buf.Replace(0, e.buf.Len(), content); err != nil {
			return err
		}
		e.cursors = cursor.NewSet(0)
		e.history.Clear()
		e.goalCol = -1
		return nil
	})
}

// write runs fn under the write lock and notifies change listeners when it
// modified the buffer.
func (e *Engine) write(fn func() error) error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	before := e.buf.RevisionID()
	err := fn()
	changed := e.buf.RevisionID() != before
	var snap *Snapshot
	var fns []ChangeFunc
	if changed {
		snap = e.buf.Snapshot()
		fns = append(fns, e.listeners...)
	}
	e.mu.Unlock()

	for _, f := range fns {
		f(snap)
	}
	return err
}

// applyLocked commits one edit: buffer, cursor transform, history record.
func (e *Engine) applyLocked(edit Edit) error {
	before := e.cursors.All()
	applied, err := e.buf.ApplyEdit(edit)
	if err != nil {
		return err
	}
	cursor.TransformSet(e.cursors, edit)
	e.history.Record(history.FromApplied(applied), before, e.cursors.All())
	e.goalCol = -1
	return nil
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverses the most recent edit group, restoring buffer and cursors.
func (e *Engine) Undo() error {
	return e.write(func() error {
		if err := e.history.Undo(e.buf, e.cursors); err != nil {
			return err
		}
		e.cursors.Clamp(e.buf.Len())
		e.goalCol = -1
		return nil
	})
}

// Redo re-applies the most recently undone edit group.
func (e *Engine) Redo() error {
	return e.write(func() error {
		if err := e.history.Redo(e.buf, e.cursors); err != nil {
			return err
		}
		e.cursors.Clamp(e.buf.Len())
		e.goalCol = -1
		return nil
	})
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo groups.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo groups.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// SealUndoGroup closes the open undo group so the next edit starts a new
// one. Mode transitions and explicit commands call this.
func (e *Engine) SealUndoGroup() {
	e.history.Seal()
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

// ============================================================================
// Cursor Operations
// ============================================================================

// Cursors returns a copy of the cursor set.
func (e *Engine) Cursors() *cursor.Set {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Clone()
}

// Selections returns all selections in position order.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.All()
}

// PrimaryCursor returns the primary cursor's head offset.
func (e *Engine) PrimaryCursor() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.PrimaryHead()
}

// PrimarySelection returns the primary selection.
func (e *Engine) PrimarySelection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Primary()
}

// SetCursor collapses to a single cursor at offset. Explicit cursor
// placement seals the open undo group.
func (e *Engine) SetCursor(offset ByteOffset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.Set(cursor.At(offset).Clamp(e.buf.Len()))
	e.goalCol = -1
	e.history.Seal()
}

// SetSelection replaces all selections with one.
func (e *Engine) SetSelection(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.Set(sel.Clamp(e.buf.Len()))
	e.goalCol = -1
	e.history.Seal()
}

// SetSelections replaces the whole cursor set.
func (e *Engine) SetSelections(sels []Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.SetAll(sels)
	e.cursors.Clamp(e.buf.Len())
	e.goalCol = -1
	e.history.Seal()
}

// AddCursor adds a cursor at the given offset.
func (e *Engine) AddCursor(offset ByteOffset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.Add(cursor.At(offset).Clamp(e.buf.Len()))
}

// CollapseSelections collapses every selection to its head.
func (e *Engine) CollapseSelections() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.CollapseAll()
}

// CursorCount returns the number of cursors.
func (e *Engine) CursorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Count()
}

// Move applies a motion to every selection. When extend is true the anchors
// stay put (visual-style selection); otherwise selections collapse to the
// new head. Vertical motion remembers the column it aims for across
// consecutive line moves. Movement seals the open undo group.
func (e *Engine) Move(dir Direction, unit Unit, count int, extend bool) {
	if count <= 0 {
		count = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.buf.Snapshot()
	goal := e.goalCol
	if unit != UnitLine {
		goal = -1
	}

	sels := e.cursors.All()
	primaryGoal := -1
	for i, sel := range sels {
		moved, g := cursor.Move(snap, sel, dir, unit, count, extend, goal)
		sels[i] = moved
		if i == 0 {
			primaryGoal = g
		}
	}
	e.cursors.SetAll(sels)

	if unit == UnitLine {
		e.goalCol = primaryGoal
	} else {
		e.goalCol = -1
	}
	e.history.Seal()
}

// MoveTo places the primary cursor at a line/column point.
func (e *Engine) MoveTo(point Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	offset := e.buf.PointToOffset(point)
	e.cursors.Set(cursor.At(offset))
	e.goalCol = -1
	e.history.Seal()
}

// ============================================================================
// Change Notification
// ============================================================================

// Subscribe registers a callback invoked after every committed edit. Not
// safe to call from within a callback.
func (e *Engine) Subscribe(fn ChangeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}
