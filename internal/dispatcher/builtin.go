package dispatcher

import (
	"strings"

	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/input/mode"
)

// Bind registers the core editing handlers against an engine, mode manager,
// and yank register.
func Bind(d *Dispatcher, eng *engine.Engine, modes *mode.Manager, reg *Register) {
	b := &builtins{eng: eng, modes: modes, reg: reg}

	d.Register(mode.ActionSwitchMode, b.switchMode)
	d.Register(mode.ActionCursorMove, b.cursorMove)
	d.Register(mode.ActionCursorLineStart, b.cursorLineStart)
	d.Register(mode.ActionCursorLineEnd, b.cursorLineEnd)
	d.Register(mode.ActionInsert, b.insert)
	d.Register(mode.ActionDeleteBackward, b.deleteBackward)
	d.Register(mode.ActionDeleteForward, b.deleteForward)
	d.Register(mode.ActionDeleteSelections, b.deleteSelections)
	d.Register(mode.ActionYankSelections, b.yankSelections)
	d.Register(mode.ActionOperator, b.operator)
	d.Register(mode.ActionPaste, b.paste)
	d.Register(mode.ActionUndo, b.undo)
	d.Register(mode.ActionRedo, b.redo)
	d.Register(mode.ActionSealUndo, b.sealUndo)
	d.Register(mode.ActionCollapseSelections, b.collapseSelections)
}

type builtins struct {
	eng   *engine.Engine
	modes *mode.Manager
	reg   *Register
}

func (b *builtins) switchMode(args Args) error {
	// Mode changes close the open undo unit.
	b.eng.SealUndoGroup()
	return b.modes.Switch(args.Str("to"))
}

func (b *builtins) cursorMove(args Args) error {
	count := args.Int("count", 1)
	extend := args.Bool("extend")

	dir := engine.Forward
	if args.Str("dir") == "backward" {
		dir = engine.Backward
	}

	switch args.Str("unit") {
	case "char":
		b.eng.Move(dir, engine.UnitChar, count, extend)
	case "line":
		b.eng.Move(dir, engine.UnitLine, count, extend)
	case "word":
		b.eng.Move(dir, engine.UnitWord, count, extend)
	case "word_end":
		b.mapHeads(extend, func(snap *engine.Snapshot, head engine.ByteOffset) engine.ByteOffset {
			for i := 0; i < count; i++ {
				head = cursor.WordEnd(snap, head)
			}
			return head
		})
	}
	return nil
}

func (b *builtins) cursorLineStart(args Args) error {
	b.mapHeads(args.Bool("extend"), cursor.LineStart)
	return nil
}

func (b *builtins) cursorLineEnd(args Args) error {
	b.mapHeads(args.Bool("extend"), cursor.LineEnd)
	return nil
}

// mapHeads moves every selection head through fn against one snapshot.
func (b *builtins) mapHeads(extend bool, fn func(*engine.Snapshot, engine.ByteOffset) engine.ByteOffset) {
	snap := b.eng.Snapshot()
	sels := b.eng.Selections()
	for i, sel := range sels {
		head := fn(snap, sel.Head)
		if extend {
			sels[i] = sel.Extend(head)
		} else {
			sels[i] = sel.MoveTo(head)
		}
	}
	b.eng.SetSelections(sels)
}

func (b *builtins) insert(args Args) error {
	return b.eng.InsertAtCursors(args.Str("text"))
}

func (b *builtins) deleteBackward(args Args) error {
	for i := 0; i < args.Int("count", 1); i++ {
		if err := b.eng.DeleteBackward(); err != nil {
			return err
		}
	}
	return nil
}

func (b *builtins) deleteForward(args Args) error {
	for i := 0; i < args.Int("count", 1); i++ {
		if err := b.eng.DeleteForward(); err != nil {
			return err
		}
	}
	return nil
}

func (b *builtins) deleteSelections(_ Args) error {
	if err := b.eng.DeleteSelections(); err != nil {
		return err
	}
	b.eng.SealUndoGroup()
	return nil
}

func (b *builtins) yankSelections(_ Args) error {
	snap := b.eng.Snapshot()
	var parts []string
	for _, sel := range b.eng.Selections() {
		if sel.IsEmpty() {
			continue
		}
		parts = append(parts, snap.TextRange(sel.Start(), sel.End()))
	}
	if len(parts) > 0 {
		b.reg.Set(strings.Join(parts, ""), false)
	}
	return nil
}

func (b *builtins) operator(args Args) error {
	op := args.Str("op")
	count := args.Int("count", 1)
	linewise := args.Bool("linewise")

	var motion rune
	if m := args.Str("motion"); m != "" {
		motion = []rune(m)[0]
	}

	snap := b.eng.Snapshot()
	sels := b.eng.Selections()
	spans := make([]engine.Range, len(sels))
	for i, sel := range sels {
		if linewise {
			line := int(snap.OffsetToPoint(sel.Head).Line)
			spans[i] = lineSpan(snap, line, line+count-1)
		} else {
			spans[i] = motionSpan(snap, sel.Head, motion, count)
		}
	}

	var parts []string
	for _, sp := range spans {
		parts = append(parts, snap.TextRange(sp.Start, sp.End))
	}
	b.reg.Set(strings.Join(parts, ""), linewise)

	if op == "y" {
		for i := range sels {
			sels[i] = cursor.At(spans[i].Start)
		}
		b.eng.SetSelections(sels)
		return nil
	}

	// Delete high-to-low so earlier spans keep their offsets.
	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].IsEmpty() {
			continue
		}
		if err := b.eng.Delete(spans[i].Start, spans[i].End); err != nil {
			return err
		}
	}
	b.eng.SealUndoGroup()

	if op == "c" {
		return b.modes.Switch(mode.NameInsert)
	}
	return nil
}

func (b *builtins) paste(args Args) error {
	text, linewise := b.reg.Get()
	if text == "" {
		return nil
	}
	count := args.Int("count", 1)
	before := args.Bool("before")

	if linewise {
		return b.pasteLines(text, count, before)
	}
	if !before {
		// Charwise paste goes after the cursor position.
		b.eng.Move(engine.Forward, engine.UnitChar, 1, false)
	}
	return b.eng.InsertAtCursors(strings.Repeat(text, count))
}

func (b *builtins) pasteLines(text string, count int, before bool) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text = strings.Repeat(text, count)

	snap := b.eng.Snapshot()
	line := snap.OffsetToPoint(b.eng.PrimaryCursor()).Line

	var at engine.ByteOffset
	if before {
		at = snap.LineStartOffset(line)
	} else {
		end := snap.LineEndOffset(line)
		if end >= snap.Len() {
			// Last line has no trailing newline; open one below it.
			at = snap.Len()
			text = "\n" + strings.TrimSuffix(text, "\n")
		} else {
			at = end + 1
		}
	}
	if err := b.eng.Insert(at, text); err != nil {
		return err
	}
	b.eng.SetCursor(at)
	return nil
}

func (b *builtins) undo(args Args) error {
	for i := 0; i < args.Int("count", 1); i++ {
		if err := b.eng.Undo(); err != nil {
			return err
		}
	}
	return nil
}

func (b *builtins) redo(args Args) error {
	for i := 0; i < args.Int("count", 1); i++ {
		if err := b.eng.Redo(); err != nil {
			return err
		}
	}
	return nil
}

func (b *builtins) sealUndo(_ Args) error {
	b.eng.SealUndoGroup()
	return nil
}

func (b *builtins) collapseSelections(_ Args) error {
	b.eng.CollapseSelections()
	return nil
}

// motionSpan computes the byte range an operator covers when composed with
// a motion from head.
func motionSpan(snap *engine.Snapshot, head engine.ByteOffset, motion rune, count int) engine.Range {
	target := head
	switch motion {
	case 'w':
		for i := 0; i < count; i++ {
			target = cursor.WordForward(snap, target)
		}
	case 'e':
		for i := 0; i < count; i++ {
			target = cursor.WordEnd(snap, target)
		}
	case 'b':
		for i := 0; i < count; i++ {
			target = cursor.WordBackward(snap, target)
		}
	case 'l':
		for i := 0; i < count; i++ {
			target = cursor.NextGrapheme(snap, target)
		}
	case 'h':
		for i := 0; i < count; i++ {
			target = cursor.PrevGrapheme(snap, target)
		}
	case '0':
		target = cursor.LineStart(snap, head)
	case '$':
		target = cursor.LineEnd(snap, head)
	case 'j':
		line := int(snap.OffsetToPoint(head).Line)
		return lineSpan(snap, line, line+count)
	case 'k':
		line := int(snap.OffsetToPoint(head).Line)
		return lineSpan(snap, line-count, line)
	}
	if target < head {
		return engine.Range{Start: target, End: head}
	}
	return engine.Range{Start: head, End: target}
}

// lineSpan returns the byte range covering whole lines [first, last],
// including one adjacent newline so the lines disappear entirely.
func lineSpan(snap *engine.Snapshot, first, last int) engine.Range {
	maxLine := int(snap.LineCount()) - 1
	if first < 0 {
		first = 0
	}
	if last > maxLine {
		last = maxLine
	}
	start := snap.LineStartOffset(uint32(first))
	end := snap.LineEndOffset(uint32(last))
	if end < snap.Len() {
		end++
	} else if start > 0 {
		start--
	}
	return engine.Range{Start: start, End: end}
}
