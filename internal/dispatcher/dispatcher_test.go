package dispatcher

import (
	"errors"
	"testing"

	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/input/key"
	"github.com/dshills/loom/internal/input/mode"
)

type editor struct {
	eng   *engine.Engine
	modes *mode.Manager
	disp  *Dispatcher
	reg   *Register
}

func newEditor(content string) *editor {
	eng := engine.New(engine.WithContent(content))
	modes := mode.NewManager()
	modes.Register(mode.NewNormal())
	modes.Register(mode.NewInsert())
	modes.Register(mode.NewVisual())
	modes.Register(mode.NewCommand())

	d := New()
	reg := NewRegister()
	Bind(d, eng, modes, reg)
	return &editor{eng: eng, modes: modes, disp: d, reg: reg}
}

// press feeds one key through the active mode and dispatches the actions.
func (e *editor) press(t *testing.T, ev key.Event) {
	t.Helper()
	if err := e.disp.DispatchAll(e.modes.HandleKey(ev)); err != nil {
		t.Fatalf("dispatch %v: %v", ev, err)
	}
}

// typeKeys presses each rune in s.
func (e *editor) typeKeys(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		e.press(t, key.NewRune(r))
	}
}

func TestInsertTypeEscapeUndo(t *testing.T) {
	e := newEditor("")

	e.typeKeys(t, "i")
	if e.modes.CurrentName() != mode.NameInsert {
		t.Fatalf("mode = %q, want insert", e.modes.CurrentName())
	}
	e.typeKeys(t, "hi")
	e.press(t, key.NewSpecial(key.KeyEscape))
	if e.modes.CurrentName() != mode.NameNormal {
		t.Fatalf("mode = %q, want normal", e.modes.CurrentName())
	}
	if e.eng.Text() != "hi" {
		t.Fatalf("Text() = %q", e.eng.Text())
	}

	e.typeKeys(t, "u")
	if e.eng.Text() != "" {
		t.Errorf("undo left %q, want empty", e.eng.Text())
	}
	if e.eng.PrimaryCursor() != 0 {
		t.Errorf("cursor = %d, want 0", e.eng.PrimaryCursor())
	}
	if e.modes.CurrentName() != mode.NameNormal {
		t.Errorf("mode = %q, want normal", e.modes.CurrentName())
	}
}

func TestWordGroupedUndoThroughModes(t *testing.T) {
	e := newEditor("")
	e.typeKeys(t, "i")
	e.typeKeys(t, "abc def")
	e.press(t, key.NewSpecial(key.KeyEscape))

	// One undo removes one word unit, not one keystroke.
	e.typeKeys(t, "u")
	if e.eng.Text() != "abc " {
		t.Errorf("Text() = %q, want %q", e.eng.Text(), "abc ")
	}
}

func TestDeleteWordOperator(t *testing.T) {
	e := newEditor("one two three")
	e.typeKeys(t, "dw")

	if e.eng.Text() != "two three" {
		t.Errorf("Text() = %q", e.eng.Text())
	}
	text, linewise := e.reg.Get()
	if text != "one " || linewise {
		t.Errorf("register = %q linewise=%v", text, linewise)
	}

	// The whole dw undoes as a unit.
	e.typeKeys(t, "u")
	if e.eng.Text() != "one two three" {
		t.Errorf("after undo Text() = %q", e.eng.Text())
	}
}

func TestDeleteLine(t *testing.T) {
	e := newEditor("a\nb\nc")
	e.typeKeys(t, "dd")
	if e.eng.Text() != "b\nc" {
		t.Fatalf("Text() = %q", e.eng.Text())
	}
	text, linewise := e.reg.Get()
	if text != "a\n" || !linewise {
		t.Errorf("register = %q linewise=%v", text, linewise)
	}

	// Linewise paste opens a line below the cursor.
	e.typeKeys(t, "p")
	if e.eng.Text() != "b\na\nc" {
		t.Errorf("after paste Text() = %q", e.eng.Text())
	}
}

func TestDeleteLineLastLine(t *testing.T) {
	e := newEditor("a\nb")
	e.typeKeys(t, "j")
	e.typeKeys(t, "dd")
	// Deleting the last line also removes the preceding newline.
	if e.eng.Text() != "a" {
		t.Errorf("Text() = %q", e.eng.Text())
	}
}

func TestCountedDeleteChar(t *testing.T) {
	e := newEditor("abcdef")
	e.typeKeys(t, "3x")
	if e.eng.Text() != "def" {
		t.Errorf("Text() = %q", e.eng.Text())
	}
}

func TestChangeOperatorEntersInsert(t *testing.T) {
	e := newEditor("one two")
	e.typeKeys(t, "cw")
	if e.modes.CurrentName() != mode.NameInsert {
		t.Fatalf("mode = %q, want insert", e.modes.CurrentName())
	}
	if e.eng.Text() != "two" {
		t.Fatalf("Text() = %q", e.eng.Text())
	}
	e.typeKeys(t, "ONE ")
	if e.eng.Text() != "ONE two" {
		t.Errorf("Text() = %q", e.eng.Text())
	}
}

func TestVisualDelete(t *testing.T) {
	e := newEditor("hello world")
	e.typeKeys(t, "v")
	if e.modes.CurrentName() != mode.NameVisual {
		t.Fatalf("mode = %q, want visual", e.modes.CurrentName())
	}
	e.typeKeys(t, "3l")
	e.typeKeys(t, "d")

	if e.eng.Text() != "lo world" {
		t.Errorf("Text() = %q", e.eng.Text())
	}
	if e.modes.CurrentName() != mode.NameNormal {
		t.Errorf("mode = %q, want normal", e.modes.CurrentName())
	}
	if text, _ := e.reg.Get(); text != "hel" {
		t.Errorf("register = %q", text)
	}
}

func TestVisualYankAndPasteBefore(t *testing.T) {
	e := newEditor("ab")
	e.typeKeys(t, "vl")
	e.typeKeys(t, "y")
	if text, _ := e.reg.Get(); text != "a" {
		t.Fatalf("register = %q", text)
	}
	e.typeKeys(t, "P")
	if e.eng.Text() != "aab" {
		t.Errorf("Text() = %q", e.eng.Text())
	}
}

func TestVisualEscapeCollapses(t *testing.T) {
	e := newEditor("hello")
	e.typeKeys(t, "v3l")
	e.press(t, key.NewSpecial(key.KeyEscape))

	if e.modes.CurrentName() != mode.NameNormal {
		t.Errorf("mode = %q", e.modes.CurrentName())
	}
	if sel := e.eng.PrimarySelection(); !sel.IsEmpty() {
		t.Errorf("selection %v should be collapsed", sel)
	}
}

func TestMotionsMoveCursor(t *testing.T) {
	e := newEditor("one two\nthree")
	e.typeKeys(t, "w")
	if e.eng.PrimaryCursor() != 4 {
		t.Errorf("after w cursor = %d, want 4", e.eng.PrimaryCursor())
	}
	e.typeKeys(t, "j")
	if p := e.eng.OffsetToPoint(e.eng.PrimaryCursor()); p.Line != 1 {
		t.Errorf("after j line = %d, want 1", p.Line)
	}
	e.typeKeys(t, "0")
	if e.eng.PrimaryCursor() != 8 {
		t.Errorf("after 0 cursor = %d, want 8", e.eng.PrimaryCursor())
	}
	e.typeKeys(t, "$")
	if e.eng.PrimaryCursor() != 13 {
		t.Errorf("after $ cursor = %d, want 13", e.eng.PrimaryCursor())
	}
}

func TestUndoAtEmptyHistoryIsBenign(t *testing.T) {
	e := newEditor("text")
	err := e.disp.DispatchAll(e.modes.HandleKey(key.NewRune('u')))
	if !errors.Is(err, engine.ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
	if e.eng.Text() != "text" {
		t.Errorf("buffer changed: %q", e.eng.Text())
	}
}

func TestRedoAfterUndo(t *testing.T) {
	e := newEditor("")
	e.typeKeys(t, "iword")
	e.press(t, key.NewSpecial(key.KeyEscape))
	e.typeKeys(t, "u")
	if e.eng.Text() != "" {
		t.Fatalf("Text() = %q", e.eng.Text())
	}
	e.press(t, key.Ctrl('r'))
	if e.eng.Text() != "word" {
		t.Errorf("after redo Text() = %q", e.eng.Text())
	}
}

func TestUnknownActionError(t *testing.T) {
	d := New()
	err := d.Dispatch(mode.Action{Name: "no.such.action"})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("err = %v, want ErrUnknownAction", err)
	}
}

func TestArgsAccessors(t *testing.T) {
	a := Args{"s": "x", "n": 7, "b": true}
	if a.Str("s") != "x" || a.Str("missing") != "" {
		t.Error("Str accessor")
	}
	if a.Int("n", 0) != 7 || a.Int("missing", 3) != 3 {
		t.Error("Int accessor")
	}
	if !a.Bool("b") || a.Bool("missing") {
		t.Error("Bool accessor")
	}
}
