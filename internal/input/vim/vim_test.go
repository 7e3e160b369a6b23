package vim

import (
	"testing"

	"github.com/dshills/loom/internal/input/key"
)

// feed runs a string of characters through the parser and returns the last
// command and status.
func feed(p *Parser, s string) (Command, ParseStatus) {
	var cmd Command
	var status ParseStatus
	for _, r := range s {
		cmd, status = p.Feed(key.NewRune(r))
	}
	return cmd, status
}

func TestBareMotion(t *testing.T) {
	tests := []struct {
		input  string
		motion rune
		count  int
	}{
		{"j", 'j', 1},
		{"3j", 'j', 3},
		{"12w", 'w', 12},
		{"0", '0', 1}, // leading zero is the line-start motion
		{"$", '$', 1},
		{"10l", 'l', 10},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, status := feed(NewParser(), tt.input)
			if status != StatusComplete {
				t.Fatalf("status = %v, want complete", status)
			}
			if cmd.Motion != tt.motion || cmd.Count != tt.count || cmd.Operator != 0 {
				t.Errorf("got %+v, want motion %q count %d", cmd, tt.motion, tt.count)
			}
		})
	}
}

func TestOperatorMotion(t *testing.T) {
	tests := []struct {
		input    string
		operator rune
		motion   rune
		count    int
		linewise bool
	}{
		{"dw", 'd', 'w', 1, false},
		{"d$", 'd', '$', 1, false},
		{"3dw", 'd', 'w', 3, false},
		{"d3w", 'd', 'w', 3, false},
		{"2d3w", 'd', 'w', 6, false},
		{"ce", 'c', 'e', 1, false},
		{"dd", 'd', 0, 1, true},
		{"3dd", 'd', 0, 3, true},
		{"cc", 'c', 0, 1, true},
		{"yy", 'y', 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, status := feed(NewParser(), tt.input)
			if status != StatusComplete {
				t.Fatalf("status = %v, want complete", status)
			}
			if cmd.Operator != tt.operator || cmd.Motion != tt.motion ||
				cmd.Count != tt.count || cmd.Linewise != tt.linewise {
				t.Errorf("%q parsed to %+v", tt.input, cmd)
			}
		})
	}
}

func TestPassthroughCarriesCount(t *testing.T) {
	p := NewParser()
	cmd, status := feed(p, "3x")
	if status != StatusPassthrough {
		t.Fatalf("status = %v, want passthrough", status)
	}
	if cmd.Count != 3 || !cmd.Key.Is('x') {
		t.Errorf("got %+v, want count 3 key x", cmd)
	}
	if p.Pending() {
		t.Error("parser should be reset after passthrough")
	}
}

func TestPassthroughPlainKey(t *testing.T) {
	cmd, status := NewParser().Feed(key.NewRune('i'))
	if status != StatusPassthrough {
		t.Fatalf("status = %v, want passthrough", status)
	}
	if cmd.Count != 1 || !cmd.Key.Is('i') {
		t.Errorf("got %+v", cmd)
	}
}

func TestEscapeAbandonsSequence(t *testing.T) {
	p := NewParser()
	_, _ = feed(p, "3d")
	if !p.Pending() {
		t.Fatal("sequence should be pending")
	}
	_, status := p.Feed(key.NewSpecial(key.KeyEscape))
	if status != StatusInvalid {
		t.Errorf("status = %v, want invalid", status)
	}
	if p.Pending() {
		t.Error("parser should be reset")
	}
}

func TestInvalidOperatorTarget(t *testing.T) {
	p := NewParser()
	_, _ = p.Feed(key.NewRune('d'))
	_, status := p.Feed(key.NewRune('q'))
	if status != StatusInvalid {
		t.Errorf("status = %v, want invalid", status)
	}
	if p.Pending() {
		t.Error("parser should be reset after invalid sequence")
	}
}

func TestSpecialKeyDuringSequence(t *testing.T) {
	p := NewParser()
	_, _ = p.Feed(key.NewRune('2'))
	_, status := p.Feed(key.NewSpecial(key.KeyEnter))
	if status != StatusInvalid {
		t.Errorf("status = %v, want invalid", status)
	}
}

func TestCountOverflowCapped(t *testing.T) {
	p := NewParser()
	for i := 0; i < 30; i++ {
		_, _ = p.Feed(key.NewRune('9'))
	}
	cmd, status := p.Feed(key.NewRune('j'))
	if status != StatusComplete {
		t.Fatalf("status = %v", status)
	}
	if cmd.Count <= 0 {
		t.Errorf("count overflowed to %d", cmd.Count)
	}
}
