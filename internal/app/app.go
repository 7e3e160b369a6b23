// Package app wires the editing engine, modal input, dispatcher,
// highlighting, scripting, and configuration into one application.
package app

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/dispatcher"
	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/highlight/theme"
	"github.com/dshills/loom/internal/input/key"
	"github.com/dshills/loom/internal/input/mode"
	"github.com/dshills/loom/internal/script"
)

// Option configures an Application.
type Option func(*Application)

// WithConfig supplies a loaded configuration instead of defaults.
func WithConfig(cfg config.Config) Option {
	return func(a *Application) { a.cfg = cfg }
}

// WithLogOutput directs log output to w.
func WithLogOutput(w io.Writer) Option {
	return func(a *Application) { a.logOutput = w }
}

// WithLogger replaces the logger entirely.
func WithLogger(l *Logger) Option {
	return func(a *Application) { a.logger = l }
}

// Application is the composition root. One document at a time; the modal
// input layer feeds actions into the dispatcher, which mutates the
// document's engine.
type Application struct {
	cfg       config.Config
	logger    *Logger
	logOutput io.Writer

	doc    *Document
	modes  *mode.Manager
	disp   *dispatcher.Dispatcher
	reg    *dispatcher.Register
	theme  *theme.Theme
	lua    *script.Runtime
	exCmds map[string]exHandler

	mu       sync.Mutex
	status   string
	quitting bool
	quit     chan struct{}
}

// New creates an application editing the given file. An empty path opens a
// scratch buffer.
func New(path string, opts ...Option) (*Application, error) {
	a := &Application{
		cfg:  config.Default(),
		reg:  dispatcher.NewRegister(),
		quit: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = NewLogger(ParseLogLevel(a.cfg.Log.Level), a.logOutput)
	}

	engOpts := []engine.Option{
		engine.WithTabWidth(a.cfg.Editor.TabWidth),
		engine.WithMaxUndoGroups(a.cfg.Editor.UndoLimit),
	}
	var err error
	if path == "" {
		a.doc = NewScratchDocument(engOpts...)
	} else {
		a.doc, err = OpenDocument(path, engOpts...)
		if err != nil {
			return nil, err
		}
	}

	if err := a.loadTheme(a.cfg.Editor.Theme); err != nil {
		a.logger.Warn("theme: %v, using default", err)
		a.setTheme(theme.Default())
	}

	a.modes = mode.NewManager()
	a.modes.Register(mode.NewNormal())
	a.modes.Register(mode.NewInsert())
	a.modes.Register(mode.NewVisual())
	a.modes.Register(mode.NewCommand())

	a.disp = dispatcher.New()
	dispatcher.Bind(a.disp, a.doc.Engine(), a.modes, a.reg)
	a.disp.Register(mode.ActionExecuteEx, a.executeExAction)

	a.lua = script.New(&luaHost{app: a})
	a.registerExCommands()

	a.logger.Info("opened %s", a.doc.Name())
	return a, nil
}

func (a *Application) loadTheme(name string) error {
	if name == "" {
		a.setTheme(theme.Default())
		return nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(filepath.Dir(config.DefaultPath()), "themes", name)
	}
	th, err := theme.Load(name)
	if err != nil {
		return err
	}
	a.setTheme(th)
	return nil
}

func (a *Application) setTheme(th *theme.Theme) {
	a.mu.Lock()
	a.theme = th
	a.mu.Unlock()
}

// LoadInitScript runs the user's init.lua if present.
func (a *Application) LoadInitScript() error {
	path := filepath.Join(filepath.Dir(config.DefaultPath()), "init.lua")
	return a.lua.LoadInit(path)
}

// Document returns the open document.
func (a *Application) Document() *Document { return a.doc }

// Modes returns the mode manager.
func (a *Application) Modes() *mode.Manager { return a.modes }

// Theme returns the active color theme. Config reloads swap it on the
// watcher goroutine while the render loop reads it.
func (a *Application) Theme() *theme.Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.theme
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger { return a.logger }

// Scripts returns the Lua runtime.
func (a *Application) Scripts() *script.Runtime { return a.lua }

// Status returns the current status line message.
func (a *Application) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// SetStatus replaces the status line message.
func (a *Application) SetStatus(msg string) {
	a.mu.Lock()
	a.status = msg
	a.mu.Unlock()
}

// Quit requests shutdown. Safe to call more than once.
func (a *Application) Quit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.quitting {
		a.quitting = true
		close(a.quit)
	}
}

// Done is closed when shutdown has been requested.
func (a *Application) Done() <-chan struct{} { return a.quit }

// HandleKey routes one key event through the current mode and dispatches
// the resulting actions. Action errors land on the status line rather
// than aborting the loop.
func (a *Application) HandleKey(ev key.Event) {
	actions := a.modes.HandleKey(ev)
	for _, act := range actions {
		if err := a.disp.Dispatch(act); err != nil {
			a.logger.Debug("action %s: %v", act.Name, err)
			a.SetStatus(err.Error())
		}
	}
}

// ApplyConfig applies a live-reloaded configuration.
func (a *Application) ApplyConfig(cfg config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	a.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	if err := a.loadTheme(cfg.Editor.Theme); err != nil {
		a.logger.Warn("theme reload: %v", err)
	}
	a.logger.Info("configuration reloaded")
}

// Close releases the document and script runtime.
func (a *Application) Close() {
	a.doc.Close()
	a.lua.Close()
}

// luaHost adapts the application to the script.Host surface.
type luaHost struct {
	app *Application
}

func (h *luaHost) Text() string {
	return h.app.doc.Engine().Text()
}

func (h *luaHost) LineCount() int {
	return int(h.app.doc.Engine().LineCount())
}

func (h *luaHost) Insert(text string) error {
	return h.app.doc.Engine().InsertAtCursors(text)
}

func (h *luaHost) Message(msg string) {
	h.app.SetStatus(msg)
}

// StatusLine builds the message shown under the buffer: mode, file,
// pending state.
func (a *Application) StatusLine() string {
	if msg := a.Status(); msg != "" {
		return msg
	}
	return fmt.Sprintf("-- %s -- %s", a.modes.Current().DisplayName(), a.doc.Describe())
}
