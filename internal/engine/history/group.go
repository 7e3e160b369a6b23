package history

import (
	"fmt"
	"time"

	"github.com/dshills/loom/internal/engine/buffer"
	"github.com/dshills/loom/internal/engine/cursor"
)

// Group is an ordered sequence of operations undone and redone as one unit,
// with the cursor state to restore on either side.
type Group struct {
	ops []Operation

	// selsBefore is the cursor state before the first operation; restored
	// on undo. selsAfter tracks the state after the latest operation;
	// restored on redo.
	selsBefore []Selection
	selsAfter  []Selection

	// sealed groups refuse further merging (whitespace units, explicit
	// seals on mode change or cursor jump).
	sealed bool

	at time.Time
}

func newGroup(op Operation, selsBefore, selsAfter []Selection) *Group {
	return &Group{
		ops:        []Operation{op},
		selsBefore: selsBefore,
		selsAfter:  selsAfter,
		at:         time.Now(),
	}
}

// Len returns the number of operations in the group.
func (g *Group) Len() int {
	return len(g.ops)
}

// Operations returns a copy of the group's operations.
func (g *Group) Operations() []Operation {
	out := make([]Operation, len(g.ops))
	copy(out, g.ops)
	return out
}

// Description summarizes the group for UI feedback.
func (g *Group) Description() string {
	if len(g.ops) == 0 {
		return "empty"
	}
	first := g.ops[0]
	switch {
	case first.IsInsert():
		return fmt.Sprintf("insert %d op(s)", len(g.ops))
	case first.IsDelete():
		return fmt.Sprintf("delete %d op(s)", len(g.ops))
	default:
		return fmt.Sprintf("replace %d op(s)", len(g.ops))
	}
}

// append extends the group with a continuing operation.
func (g *Group) append(op Operation, selsAfter []Selection) {
	g.ops = append(g.ops, op)
	g.selsAfter = selsAfter
}

// accepts reports whether op continues this group under the word-grouping
// policy: the group is unsealed and op extends the same contiguous
// non-whitespace run as the group's last operation.
func (g *Group) accepts(op Operation) bool {
	if g.sealed || len(g.ops) == 0 {
		return false
	}
	last := g.ops[len(g.ops)-1]

	switch {
	case op.IsInsert() && last.IsInsert():
		// Typing: new text must butt up against the end of the last
		// insertion and stay within one word run.
		return isWordRun(op.NewText) && isWordRun(last.NewText) &&
			op.Range.Start == last.NewRange().End
	case op.IsDelete() && last.IsDelete():
		if !isWordRun(op.OldText) || !isWordRun(last.OldText) {
			return false
		}
		// Backspace run: each deletion ends where the previous began.
		// Forward-delete run: each deletion starts at the same offset.
		return op.Range.End == last.Range.Start || op.Range.Start == last.Range.Start
	default:
		return false
	}
}

// undo applies the inverse of each operation in reverse order and restores
// the pre-group cursor state.
func (g *Group) undo(buf *buffer.Buffer, set *cursor.Set) error {
	for i := len(g.ops) - 1; i >= 0; i-- {
		if _, err := buf.ApplyEdit(g.ops[i].Invert()); err != nil {
			return fmt.Errorf("undo %s: %w", g.ops[i].Range, err)
		}
	}
	set.SetAll(g.selsBefore)
	return nil
}

// redo re-applies each operation in forward order and restores the
// post-group cursor state.
func (g *Group) redo(buf *buffer.Buffer, set *cursor.Set) error {
	for i := range g.ops {
		if _, err := buf.ApplyEdit(g.ops[i].Reapply()); err != nil {
			return fmt.Errorf("redo %s: %w", g.ops[i].Range, err)
		}
	}
	set.SetAll(g.selsAfter)
	return nil
}
