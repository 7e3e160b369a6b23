package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/input/key"
	"github.com/dshills/loom/internal/input/mode"
)

func newTestApp(t *testing.T, content string) *Application {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := New(path, WithLogger(NullLogger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func press(a *Application, keys string) {
	for _, r := range keys {
		a.HandleKey(key.NewRune(r))
	}
}

func TestNewOpensFile(t *testing.T) {
	a := newTestApp(t, "hello\n")
	if got := a.Document().Engine().Text(); got != "hello\n" {
		t.Errorf("content = %q", got)
	}
	if a.Modes().CurrentName() != mode.NameNormal {
		t.Errorf("initial mode = %q", a.Modes().CurrentName())
	}
	if a.Document().IsModified() {
		t.Error("freshly opened document reports modified")
	}
}

func TestNewScratch(t *testing.T) {
	a, err := New("", WithLogger(NullLogger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if !a.Document().IsScratch() {
		t.Error("empty path should open a scratch document")
	}
}

func TestKeysEditThroughModes(t *testing.T) {
	a := newTestApp(t, "")
	press(a, "iabc")
	a.HandleKey(key.NewSpecial(key.KeyEscape))

	if got := a.Document().Engine().Text(); got != "abc" {
		t.Errorf("text = %q, want abc", got)
	}
	if a.Modes().CurrentName() != mode.NameNormal {
		t.Errorf("mode = %q after escape", a.Modes().CurrentName())
	}
	if !a.Document().IsModified() {
		t.Error("edited document not marked modified")
	}
}

func TestWriteCommandSaves(t *testing.T) {
	a := newTestApp(t, "one\n")
	press(a, "itwo ")
	a.HandleKey(key.NewSpecial(key.KeyEscape))

	if err := a.ExecuteEx("w"); err != nil {
		t.Fatalf("ExecuteEx(w): %v", err)
	}
	data, err := os.ReadFile(a.Document().Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two one\n" {
		t.Errorf("saved = %q", data)
	}
	if a.Document().IsModified() {
		t.Error("document modified after save")
	}
}

func TestWriteAs(t *testing.T) {
	a := newTestApp(t, "data")
	target := filepath.Join(t.TempDir(), "copy.txt")
	if err := a.ExecuteEx("w " + target); err != nil {
		t.Fatalf("ExecuteEx: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "data" {
		t.Errorf("saved = %q", data)
	}
	if a.Document().Name() != "copy.txt" {
		t.Errorf("name = %q after save-as", a.Document().Name())
	}
}

func TestQuitRefusesUnsaved(t *testing.T) {
	a := newTestApp(t, "")
	press(a, "ix")
	a.HandleKey(key.NewSpecial(key.KeyEscape))

	if err := a.ExecuteEx("q"); !errors.Is(err, ErrUnsavedChanges) {
		t.Fatalf("q on dirty buffer = %v, want ErrUnsavedChanges", err)
	}
	if err := a.ExecuteEx("q!"); err != nil {
		t.Fatalf("q!: %v", err)
	}
	select {
	case <-a.Done():
	default:
		t.Error("q! did not request quit")
	}
}

func TestWriteQuit(t *testing.T) {
	a := newTestApp(t, "")
	press(a, "iok")
	a.HandleKey(key.NewSpecial(key.KeyEscape))

	if err := a.ExecuteEx("wq"); err != nil {
		t.Fatalf("wq: %v", err)
	}
	select {
	case <-a.Done():
	default:
		t.Error("wq did not request quit")
	}
}

func TestUnknownExCommand(t *testing.T) {
	a := newTestApp(t, "")
	if err := a.ExecuteEx("frobnicate"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("error = %v, want ErrUnknownCommand", err)
	}
}

func TestLuaUserCommand(t *testing.T) {
	a := newTestApp(t, "")
	err := a.Scripts().Eval(`
loom.command("stamp", function(args)
  loom.insert(args[1] or "?")
end)
`)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.ExecuteEx("stamp DONE"); err != nil {
		t.Fatalf("ExecuteEx(stamp): %v", err)
	}
	if got := a.Document().Engine().Text(); got != "DONE" {
		t.Errorf("text = %q", got)
	}
}

func TestCommandModeRoundTrip(t *testing.T) {
	a := newTestApp(t, "")
	press(a, ":q!")
	a.HandleKey(key.NewSpecial(key.KeyEnter))

	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Error(":q! via command mode did not quit")
	}
	if a.Modes().CurrentName() != mode.NameNormal {
		t.Errorf("mode = %q after command", a.Modes().CurrentName())
	}
}

func TestActionErrorLandsOnStatusLine(t *testing.T) {
	a := newTestApp(t, "")
	// Undo with empty history fails; the loop reports and continues.
	press(a, "u")
	if a.Status() == "" {
		t.Error("status line empty after failed action")
	}
	press(a, "ix") // still responsive
	if got := a.Document().Engine().Text(); got != "x" {
		t.Errorf("text = %q", got)
	}
}

func TestThemeReadDuringConfigReload(t *testing.T) {
	a := newTestApp(t, "")
	cfg := config.Default()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			a.ApplyConfig(cfg)
		}
	}()
	for i := 0; i < 200; i++ {
		if a.Theme() == nil {
			t.Error("nil theme during reload")
		}
	}
	<-done
}

func TestApplyConfigReloads(t *testing.T) {
	a := newTestApp(t, "")
	cfg := config.Default()
	cfg.Log.Level = "error"
	a.ApplyConfig(cfg)
	// No observable crash and theme still present.
	if a.Theme() == nil {
		t.Error("theme lost on config reload")
	}
}

func TestStatusLineShowsMode(t *testing.T) {
	a := newTestApp(t, "")
	if got := a.StatusLine(); got == "" {
		t.Fatal("empty status line")
	}
	press(a, "i")
	a.SetStatus("")
	line := a.StatusLine()
	if want := "-- INSERT --"; len(line) < len(want) || line[:len(want)] != want {
		t.Errorf("status line = %q", line)
	}
}
