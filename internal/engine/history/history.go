package history

import (
	"errors"
	"sync"

	"github.com/dshills/loom/internal/engine/buffer"
	"github.com/dshills/loom/internal/engine/cursor"
)

// Errors returned by history operations. Both are benign: undo/redo on an
// empty stack is reported for UI feedback, never fatal.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxGroups bounds the undo stack when no limit is configured.
const DefaultMaxGroups = 1000

// History holds the undo and redo stacks of operation groups for one
// buffer. It lives for the buffer's lifetime. Thread-safe.
type History struct {
	mu sync.Mutex

	undo []*Group
	redo []*Group

	// open is the group still accepting continuations; it sits logically
	// on top of the undo stack.
	open *Group

	maxGroups int
}

// New creates an empty history.
func New(maxGroups int) *History {
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}
	return &History{maxGroups: maxGroups}
}

// Record logs an applied operation, merging it into the open group when the
// word-grouping policy allows. selsBefore/selsAfter are the cursor states
// around the operation. Recording always clears the redo stack.
func (h *History) Record(op Operation, selsBefore, selsAfter []Selection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.redo = nil

	if h.open != nil && h.open.accepts(op) {
		h.open.append(op, selsAfter)
		return
	}

	h.sealLocked()
	h.open = newGroup(op, selsBefore, selsAfter)

	// A whitespace or newline unit is a group of its own; seal right away
	// so the next insertion starts fresh.
	if (op.IsInsert() && !isWordRun(op.NewText)) ||
		(op.IsDelete() && !isWordRun(op.OldText)) {
		h.sealLocked()
	}
}

// Seal closes the open group. Called on mode changes, cursor jumps, and
// escape from insert mode; the next Record starts a new group regardless
// of adjacency.
func (h *History) Seal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sealLocked()
}

func (h *History) sealLocked() {
	if h.open == nil {
		return
	}
	h.open.sealed = true
	h.undo = append(h.undo, h.open)
	h.open = nil
	if len(h.undo) > h.maxGroups {
		h.undo = h.undo[len(h.undo)-h.maxGroups:]
	}
}

// Undo reverses the most recent group, restoring buffer content and cursor
// state, and moves the group to the redo stack. Returns ErrNothingToUndo
// when there is nothing to act on.
func (h *History) Undo(buf *buffer.Buffer, set *cursor.Set) error {
	h.mu.Lock()
	h.sealLocked()
	if len(h.undo) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	g := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.mu.Unlock()

	if err := g.undo(buf, set); err != nil {
		h.mu.Lock()
		h.undo = append(h.undo, g)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.redo = append(h.redo, g)
	h.mu.Unlock()
	return nil
}

// Redo re-applies the most recently undone group. Returns ErrNothingToRedo
// when the redo stack is empty.
func (h *History) Redo(buf *buffer.Buffer, set *cursor.Set) error {
	h.mu.Lock()
	if len(h.redo) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	g := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.mu.Unlock()

	if err := g.redo(buf, set); err != nil {
		h.mu.Lock()
		h.redo = append(h.redo, g)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.undo = append(h.undo, g)
	h.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.open != nil || len(h.undo) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoCount returns the number of undoable groups, counting the open group.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.undo)
	if h.open != nil {
		n++
	}
	return n
}

// RedoCount returns the number of redoable groups.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// Clear discards all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
	h.open = nil
}
