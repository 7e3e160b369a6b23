package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := New()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
}

func TestNewFromString(t *testing.T) {
	b := NewFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(uint32(i)); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestLineEndingNormalization(t *testing.T) {
	b := NewFromString("a\r\nb\rc\nd")

	if b.Text() != "a\nb\nc\nd" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}
	if b.LineCount() != 4 {
		t.Errorf("expected 4 lines, got %d", b.LineCount())
	}
}

func TestInsert(t *testing.T) {
	b := NewFromString("hello world")

	applied, err := b.Insert(5, ",")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if b.Text() != "hello, world" {
		t.Errorf("expected %q, got %q", "hello, world", b.Text())
	}
	if applied.NewRange != (Range{Start: 5, End: 6}) {
		t.Errorf("unexpected new range %v", applied.NewRange)
	}
}

func TestInsertOutOfBounds(t *testing.T) {
	b := NewFromString("hi")

	if _, err := b.Insert(3, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := b.Insert(-1, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if b.Text() != "hi" {
		t.Errorf("failed insert mutated buffer: %q", b.Text())
	}
}

func TestDelete(t *testing.T) {
	b := NewFromString("hello cruel world")

	applied, err := b.Delete(5, 11)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if b.Text() != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", b.Text())
	}
	if applied.OldText != " cruel" {
		t.Errorf("expected removed text %q, got %q", " cruel", applied.OldText)
	}
}

func TestDeleteInvalidRange(t *testing.T) {
	b := NewFromString("hello")

	cases := []struct{ start, end ByteOffset }{
		{3, 2},
		{0, 6},
		{-1, 2},
	}
	for _, c := range cases {
		if _, err := b.Delete(c.start, c.end); !errors.Is(err, ErrRangeInvalid) {
			t.Errorf("Delete(%d,%d): expected ErrRangeInvalid, got %v", c.start, c.end, err)
		}
	}
}

func TestAppliedEditInvert(t *testing.T) {
	b := NewFromString("hello world")

	applied, err := b.Delete(5, 11)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	inv := applied.Invert()
	if _, err := b.ApplyEdit(inv); err != nil {
		t.Fatalf("invert failed: %v", err)
	}
	if b.Text() != "hello world" {
		t.Errorf("invert did not restore text: %q", b.Text())
	}
}

func TestReplace(t *testing.T) {
	b := NewFromString("hello world")

	applied, err := b.Replace(6, 11, "rope")
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if b.Text() != "hello rope" {
		t.Errorf("expected %q, got %q", "hello rope", b.Text())
	}
	if applied.OldText != "world" || applied.NewText != "rope" {
		t.Errorf("unexpected applied edit %+v", applied)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	b := NewFromString("short\na slightly longer line\n\nlast")

	for off := ByteOffset(0); off <= b.Len(); off++ {
		p := b.OffsetToPoint(off)
		if back := b.PointToOffset(p); back != off {
			t.Fatalf("offset %d -> %v -> %d", off, p, back)
		}
	}
}

func TestRevisionAdvancesOnMutation(t *testing.T) {
	b := NewFromString("abc")
	before := b.RevisionID()

	if _, err := b.Insert(0, "x"); err != nil {
		t.Fatal(err)
	}
	if b.RevisionID() == before {
		t.Error("revision should advance after insert")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	b := NewFromString("original")
	snap := b.Snapshot()

	if _, err := b.Replace(0, b.Len(), "changed"); err != nil {
		t.Fatal(err)
	}

	if snap.Text() != "original" {
		t.Errorf("snapshot changed with buffer: %q", snap.Text())
	}
	if b.Text() != "changed" {
		t.Errorf("buffer not updated: %q", b.Text())
	}
}

func TestRuneAt(t *testing.T) {
	b := NewFromString("aé日")

	r, size := b.RuneAt(0)
	if r != 'a' || size != 1 {
		t.Errorf("expected 'a'/1, got %q/%d", r, size)
	}
	r, size = b.RuneAt(1)
	if r != 'é' || size != 2 {
		t.Errorf("expected 'é'/2, got %q/%d", r, size)
	}
	r, size = b.RuneAt(3)
	if r != '日' || size != 3 {
		t.Errorf("expected '日'/3, got %q/%d", r, size)
	}
	if _, size = b.RuneAt(99); size != 0 {
		t.Error("expected size 0 for out-of-range offset")
	}
}

func TestConcurrentReads(t *testing.T) {
	b := NewFromString(strings.Repeat("concurrent access\n", 200))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = b.LineText(uint32(j % int(b.LineCount())))
				_ = b.Len()
			}
		}()
	}
	for i := 0; i < 100; i++ {
		if _, err := b.Insert(0, "x"); err != nil {
			t.Errorf("insert failed: %v", err)
		}
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
