package term

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/loom/internal/app"
	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/highlight"
	"github.com/dshills/loom/internal/input/key"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		in   *tcell.EventKey
		want key.Event
	}{
		{
			name: "plain rune",
			in:   tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone),
			want: key.NewRune('x'),
		},
		{
			name: "escape",
			in:   tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			want: key.NewSpecial(key.KeyEscape),
		},
		{
			name: "enter",
			in:   tcell.NewEventKey(tcell.KeyEnter, '\r', tcell.ModNone),
			want: key.NewSpecial(key.KeyEnter),
		},
		{
			name: "backspace2 maps to backspace",
			in:   tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
			want: key.NewSpecial(key.KeyBackspace),
		},
		{
			name: "ctrl-r",
			in:   tcell.NewEventKey(tcell.KeyCtrlR, 'r', tcell.ModCtrl),
			want: key.Ctrl('r'),
		},
		{
			name: "arrow",
			in:   tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone),
			want: key.NewSpecial(key.KeyLeft),
		},
		{
			name: "alt rune keeps modifier",
			in:   tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModAlt),
			want: key.Event{Key: key.KeyRune, Rune: 'f', Modifiers: key.ModAlt},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TranslateKey(tt.in); got != tt.want {
				t.Errorf("TranslateKey = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func newSimApp(t *testing.T, content string) (*app.Application, tcell.SimulationScreen, *Renderer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := app.New(path, app.WithLogger(app.NullLogger))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 10)

	return a, screen, NewRenderer(screen)
}

// screenRow reads a rendered row back as a string.
func screenRow(screen tcell.SimulationScreen, row int) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		c := cells[row*width+x]
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func TestDrawRendersBufferAndStatus(t *testing.T) {
	a, screen, r := newSimApp(t, "first line\nsecond line\n")
	r.Draw(a)

	if got := screenRow(screen, 0); got != "first line" {
		t.Errorf("row 0 = %q", got)
	}
	if got := screenRow(screen, 1); got != "second line" {
		t.Errorf("row 1 = %q", got)
	}
	status := screenRow(screen, 9)
	if !strings.Contains(status, "NORMAL") {
		t.Errorf("status line = %q, want mode name", status)
	}

	x, y, visible := screen.GetCursor()
	if !visible || x != 0 || y != 0 {
		t.Errorf("cursor = (%d, %d, %v), want visible at origin", x, y, visible)
	}
}

func TestDrawScrollsToCursor(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, "line")
	}
	a, screen, r := newSimApp(t, strings.Join(lines, "\n"))

	eng := a.Document().Engine()
	eng.MoveTo(engine.Point{Line: 25, Column: 0})
	r.Draw(a)

	_, y, visible := screen.GetCursor()
	if !visible {
		t.Fatal("cursor hidden after scroll")
	}
	if y < 0 || y >= 9 {
		t.Errorf("cursor row = %d, want inside 9-row viewport", y)
	}
}

func TestDrawExpandsTabs(t *testing.T) {
	a, screen, r := newSimApp(t, "\tx\n")
	r.Draw(a)

	row := screenRow(screen, 0)
	if row != "    x" {
		t.Errorf("tab row = %q, want four spaces then x", row)
	}
}

func TestDrawAppliesHighlightStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := app.New(path, app.WithLogger(app.NullLogger))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 10)

	rev := a.Document().Engine().RevisionID()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && a.Document().Highlight().Revision != rev {
		time.Sleep(time.Millisecond)
	}
	if a.Document().Highlight().Revision != rev {
		t.Fatal("highlight never published")
	}

	NewRenderer(screen).Draw(a)

	// Column 0 is the 'p' of "package", column 8 the 'm' of "main".
	cells, _, _ := screen.GetContents()
	kwFg, _, _ := cells[0].Style.Decompose()
	idFg, _, _ := cells[8].Style.Decompose()
	if kwFg == idFg {
		t.Error("keyword and identifier cells share a foreground")
	}
	want := toTcellColor(a.Theme().StyleFor(highlight.CatKeyword).Color)
	if kwFg != want {
		t.Errorf("keyword foreground = %v, want %v", kwFg, want)
	}
}

func TestCommandLineShownWhileTyping(t *testing.T) {
	a, screen, r := newSimApp(t, "")
	a.HandleKey(key.NewRune(':'))
	a.HandleKey(key.NewRune('w'))
	r.Draw(a)

	if got := screenRow(screen, 9); got != ":w" {
		t.Errorf("status row = %q, want :w", got)
	}
}
