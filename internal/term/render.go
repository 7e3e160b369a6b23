package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/loom/internal/app"
	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/highlight"
	"github.com/dshills/loom/internal/highlight/theme"
	"github.com/dshills/loom/internal/input/mode"
)

// Renderer draws a document onto a tcell screen. It keeps only scroll
// state; everything else is read fresh from the application each frame.
type Renderer struct {
	screen  tcell.Screen
	topLine uint32
}

// NewRenderer creates a renderer targeting the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

func toTcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (r *Renderer) styleFor(th *theme.Theme, cat highlight.Category, selected bool) tcell.Style {
	st := th.StyleFor(cat)
	out := tcell.StyleDefault.
		Foreground(toTcellColor(st.Color)).
		Background(toTcellColor(th.Background)).
		Bold(st.Bold).
		Italic(st.Italic).
		Underline(st.Underline)
	if selected {
		out = out.Background(toTcellColor(th.Selection))
	}
	return out
}

// Draw renders the buffer, selections, cursor, and status line.
func (r *Renderer) Draw(a *app.Application) {
	width, height := r.screen.Size()
	if width <= 0 || height <= 1 {
		return
	}
	rows := height - 1 // bottom row is the status line

	eng := a.Document().Engine()
	snap := eng.Snapshot()
	hl := a.Document().Highlight()
	th := a.Theme()
	sels := eng.Selections()

	cursorPt := snap.OffsetToPoint(eng.PrimaryCursor())
	r.scrollTo(cursorPt.Line, uint32(rows), snap.LineCount())

	base := r.styleFor(th, highlight.CatText, false)
	r.screen.Fill(' ', base)

	var cursorX, cursorY = -1, -1
	for row := 0; row < rows; row++ {
		line := r.topLine + uint32(row)
		if line >= snap.LineCount() {
			break
		}
		r.drawLine(snap, hl, th, sels, line, row, width)
		if line == cursorPt.Line {
			cursorY = row
			cursorX = r.columnX(snap, line, eng.PrimaryCursor())
		}
	}

	r.drawStatusLine(a, width, height-1)

	if cursorX >= 0 && cursorX < width && cursorY >= 0 {
		r.screen.ShowCursor(cursorX, cursorY)
	} else {
		r.screen.HideCursor()
	}
	r.screen.Show()
}

// scrollTo keeps the cursor line inside the viewport.
func (r *Renderer) scrollTo(cursorLine, rows, lineCount uint32) {
	if rows == 0 {
		return
	}
	if cursorLine < r.topLine {
		r.topLine = cursorLine
	}
	if cursorLine >= r.topLine+rows {
		r.topLine = cursorLine - rows + 1
	}
	if lineCount > 0 && r.topLine >= lineCount {
		r.topLine = lineCount - 1
	}
}

func selected(sels []engine.Selection, off engine.ByteOffset) bool {
	for _, s := range sels {
		if s.Contains(off) {
			return true
		}
	}
	return false
}

// drawLine renders one buffer line, expanding tabs and applying highlight
// spans.
func (r *Renderer) drawLine(snap *engine.Snapshot, hl *highlight.State, th *theme.Theme, sels []engine.Selection, line uint32, row, width int) {
	text := snap.LineText(line)
	off := snap.LineStartOffset(line)
	tabWidth := snap.TabWidth()
	spans := hl.SpansIn(off, snap.LineEndOffset(line))
	si := 0

	x := 0
	for _, ch := range text {
		if x >= width {
			break
		}
		for si < len(spans) && spans[si].End <= off {
			si++
		}
		cat := highlight.CatText
		if si < len(spans) && spans[si].Contains(off) {
			cat = spans[si].Category
		}
		style := r.styleFor(th, cat, selected(sels, off))

		if ch == '\t' {
			next := (x/tabWidth + 1) * tabWidth
			for ; x < next && x < width; x++ {
				r.screen.SetContent(x, row, ' ', nil, style)
			}
		} else {
			r.screen.SetContent(x, row, ch, nil, style)
			x += runewidth.RuneWidth(ch)
		}
		off += engine.ByteOffset(len(string(ch)))
	}
}

// columnX computes the screen column of a byte offset within its line.
func (r *Renderer) columnX(snap *engine.Snapshot, line uint32, target engine.ByteOffset) int {
	text := snap.LineText(line)
	off := snap.LineStartOffset(line)
	tabWidth := snap.TabWidth()

	x := 0
	for _, ch := range text {
		if off >= target {
			break
		}
		if ch == '\t' {
			x = (x/tabWidth + 1) * tabWidth
		} else {
			x += runewidth.RuneWidth(ch)
		}
		off += engine.ByteOffset(len(string(ch)))
	}
	return x
}

func (r *Renderer) drawStatusLine(a *app.Application, width, row int) {
	th := a.Theme()
	style := tcell.StyleDefault.
		Foreground(toTcellColor(th.Background)).
		Background(toTcellColor(th.Foreground))

	line := a.StatusLine()
	if cmd, ok := a.Modes().Current().(*mode.Command); ok {
		line = cmd.Line()
	}

	x := 0
	for _, ch := range line {
		if x >= width {
			break
		}
		r.screen.SetContent(x, row, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
	for ; x < width; x++ {
		r.screen.SetContent(x, row, ' ', nil, style)
	}
}
