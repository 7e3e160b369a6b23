package highlight

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/loom/internal/engine/buffer"
)

const goSample = `package main

// greet prints a greeting.
func greet() {
	println("hello", 42)
}
`

// checkCovering verifies spans are sorted, non-overlapping, and cover the
// whole text with no gaps.
func checkCovering(t *testing.T, spans []Span, text string) {
	t.Helper()
	if len(text) == 0 {
		if len(spans) != 0 {
			t.Fatalf("expected no spans for empty text, got %d", len(spans))
		}
		return
	}
	off := buffer.ByteOffset(0)
	for i, sp := range spans {
		if sp.Start != off {
			t.Fatalf("span %d starts at %d, want %d", i, sp.Start, off)
		}
		if sp.End <= sp.Start {
			t.Fatalf("span %d is empty or inverted: [%d, %d)", i, sp.Start, sp.End)
		}
		off = sp.End
	}
	if off != buffer.ByteOffset(len(text)) {
		t.Fatalf("spans end at %d, want %d", off, len(text))
	}
}

func categoryAt(spans []Span, off buffer.ByteOffset) Category {
	for _, sp := range spans {
		if sp.Contains(off) {
			return sp.Category
		}
	}
	return CatText
}

func TestLexGoSource(t *testing.T) {
	spans, err := Lex(LexerFor("main.go"), goSample)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	checkCovering(t, spans, goSample)

	funcOff := buffer.ByteOffset(strings.Index(goSample, "func"))
	if got := categoryAt(spans, funcOff); got != CatKeyword {
		t.Errorf("category at %q = %v, want %v", "func", got, CatKeyword)
	}
	strOff := buffer.ByteOffset(strings.Index(goSample, `"hello"`))
	if got := categoryAt(spans, strOff); got != CatString {
		t.Errorf("category at string literal = %v, want %v", got, CatString)
	}
	numOff := buffer.ByteOffset(strings.Index(goSample, "42"))
	if got := categoryAt(spans, numOff); got != CatNumber {
		t.Errorf("category at number = %v, want %v", got, CatNumber)
	}
	cmtOff := buffer.ByteOffset(strings.Index(goSample, "// greet"))
	if got := categoryAt(spans, cmtOff); got != CatComment {
		t.Errorf("category at comment = %v, want %v", got, CatComment)
	}
}

func TestLexAdjacentSameCategoryMerge(t *testing.T) {
	spans, err := Lex(LexerFor("notes.txt"), "plain text with no structure\n")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	checkCovering(t, spans, "plain text with no structure\n")
	for i := 1; i < len(spans); i++ {
		if spans[i].Category == spans[i-1].Category {
			t.Errorf("adjacent spans %d and %d share category %v, should merge", i-1, i, spans[i].Category)
		}
	}
}

func TestLexUnknownFilenameFallsBack(t *testing.T) {
	text := "anything at all"
	spans, err := Lex(LexerFor("data.unknownext"), text)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	checkCovering(t, spans, text)
}

func TestLexEmpty(t *testing.T) {
	spans, err := Lex(LexerFor("main.go"), "")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if len(spans) != 0 {
		t.Fatalf("expected no spans, got %v", spans)
	}
}

func TestCategoryNames(t *testing.T) {
	for c := CatText; c <= CatType; c++ {
		name := c.String()
		if name == "" {
			t.Fatalf("category %d has no name", c)
		}
		got, ok := CategoryFromName(name)
		if !ok || got != c {
			t.Errorf("CategoryFromName(%q) = %v, %v; want %v, true", name, got, ok, c)
		}
	}
	if _, ok := CategoryFromName("bogus"); ok {
		t.Error("CategoryFromName accepted unknown name")
	}
}

func TestStateSpansIn(t *testing.T) {
	st := &State{Spans: []Span{
		{Start: 0, End: 4, Category: CatKeyword},
		{Start: 4, End: 10, Category: CatText},
		{Start: 10, End: 12, Category: CatNumber},
	}}
	got := st.SpansIn(4, 11)
	if len(got) != 2 || got[0].Category != CatText || got[1].Category != CatNumber {
		t.Fatalf("SpansIn(4, 11) = %v", got)
	}
	if got := st.SpansIn(12, 20); len(got) != 0 {
		t.Fatalf("SpansIn past end = %v, want empty", got)
	}
}

func waitForRevision(t *testing.T, p *Pipeline, rev buffer.RevisionID) *State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := p.State(); st.Revision == rev {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("pipeline never published revision %d (at %d)", rev, p.State().Revision)
	return nil
}

func TestPipelinePublishes(t *testing.T) {
	buf := buffer.NewFromString(goSample)
	p := NewPipeline(LexerFor("main.go"))
	p.Start()
	defer p.Stop()

	snap := buf.Snapshot()
	p.Notify(snap)

	st := waitForRevision(t, p, snap.RevisionID())
	if st.Err != nil {
		t.Fatalf("unexpected error: %v", st.Err)
	}
	checkCovering(t, st.Spans, goSample)
}

func TestPipelineLatestWins(t *testing.T) {
	buf := buffer.NewFromString("package main\n")
	p := NewPipeline(LexerFor("main.go"))

	// Worker not started: both notifies land before any processing, and
	// the second must replace the first.
	old := buf.Snapshot()
	if _, err := buf.Insert(buf.Len(), "func f() {}\n"); err != nil {
		t.Fatal(err)
	}
	newest := buf.Snapshot()
	p.Notify(old)
	p.Notify(newest)

	p.Start()
	defer p.Stop()

	st := waitForRevision(t, p, newest.RevisionID())
	checkCovering(t, st.Spans, newest.Text())
}

func TestPipelineDiscardsStale(t *testing.T) {
	buf := buffer.NewFromString("package main\n")
	older := buf.Snapshot()
	if _, err := buf.Insert(buf.Len(), "var x = 1\n"); err != nil {
		t.Fatal(err)
	}
	newer := buf.Snapshot()

	p := NewPipeline(LexerFor("main.go"))
	p.Start()
	defer p.Stop()

	p.Notify(newer)
	waitForRevision(t, p, newer.RevisionID())

	p.Notify(older)
	time.Sleep(20 * time.Millisecond)
	if st := p.State(); st.Revision != newer.RevisionID() {
		t.Fatalf("stale snapshot overwrote result: revision %d", st.Revision)
	}
}

// flakyLexer succeeds once then fails every call after.
type flakyLexer struct {
	inner chroma.Lexer
	calls int
}

func (f *flakyLexer) Config() *chroma.Config { return f.inner.Config() }

func (f *flakyLexer) Tokenise(opts *chroma.TokeniseOptions, text string) (chroma.Iterator, error) {
	f.calls++
	if f.calls > 1 {
		return nil, errors.New("lexer wedged")
	}
	return f.inner.Tokenise(opts, text)
}

func (f *flakyLexer) SetRegistry(r *chroma.LexerRegistry) chroma.Lexer { return f }

func (f *flakyLexer) SetAnalyser(a func(string) float32) chroma.Lexer { return f }

func (f *flakyLexer) AnalyseText(string) float32 { return 0 }

func TestPipelineKeepsSpansOnFailure(t *testing.T) {
	buf := buffer.NewFromString("package main\n")
	p := NewPipeline(&flakyLexer{inner: LexerFor("main.go")})
	p.Start()
	defer p.Stop()

	good := buf.Snapshot()
	p.Notify(good)
	first := waitForRevision(t, p, good.RevisionID())
	if first.Err != nil {
		t.Fatalf("first lex failed: %v", first.Err)
	}

	if _, err := buf.Insert(buf.Len(), "func f() {}\n"); err != nil {
		t.Fatal(err)
	}
	bad := buf.Snapshot()
	p.Notify(bad)
	second := waitForRevision(t, p, bad.RevisionID())
	if !errors.Is(second.Err, ErrParseFailure) {
		t.Fatalf("error = %v, want ErrParseFailure", second.Err)
	}
	if len(second.Spans) != len(first.Spans) {
		t.Fatalf("failed lex replaced spans: %d vs %d", len(second.Spans), len(first.Spans))
	}
}
