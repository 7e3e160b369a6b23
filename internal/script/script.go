// Package script embeds a sandboxed Lua runtime for user commands. An
// init.lua in the config directory can register ex-commands through the
// loom module.
package script

import (
	"errors"
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

var (
	// ErrCommandExists indicates a user command name is already taken.
	ErrCommandExists = errors.New("command already registered")
	// ErrCommandNotFound indicates no user command with the given name.
	ErrCommandNotFound = errors.New("command not found")
	// ErrRuntimeClosed indicates the runtime has been shut down.
	ErrRuntimeClosed = errors.New("script runtime closed")
)

// Host is the editor surface exposed to Lua. Implementations must be safe
// to call from the runtime's goroutine.
type Host interface {
	// Text returns the full buffer content.
	Text() string
	// LineCount returns the number of buffer lines.
	LineCount() int
	// Insert inserts text at every cursor.
	Insert(text string) error
	// Message shows a status message to the user.
	Message(msg string)
}

// Runtime owns one Lua state. LState is not goroutine safe; the mutex
// serializes all access.
type Runtime struct {
	mu       sync.Mutex
	state    *lua.LState
	host     Host
	commands map[string]*lua.LFunction
	closed   bool
}

// New creates a runtime with only the safe Lua libraries opened and the
// loom module installed.
func New(host Host) *Runtime {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// File and code loading stay out of the sandbox.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	r := &Runtime{
		state:    L,
		host:     host,
		commands: make(map[string]*lua.LFunction),
	}
	r.installModule()
	return r
}

// installModule registers the loom table in the Lua globals.
func (r *Runtime) installModule() {
	L := r.state
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"command":    r.luaCommand,
		"text":       r.luaText,
		"line_count": r.luaLineCount,
		"insert":     r.luaInsert,
		"message":    r.luaMessage,
	})
	L.SetGlobal("loom", mod)
}

func (r *Runtime) luaCommand(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if name == "" {
		L.ArgError(1, "command name must not be empty")
		return 0
	}
	if _, ok := r.commands[name]; ok {
		L.RaiseError("command %q already registered", name)
		return 0
	}
	r.commands[name] = fn
	return 0
}

func (r *Runtime) luaText(L *lua.LState) int {
	L.Push(lua.LString(r.host.Text()))
	return 1
}

func (r *Runtime) luaLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(r.host.LineCount()))
	return 1
}

func (r *Runtime) luaInsert(L *lua.LState) int {
	text := L.CheckString(1)
	if err := r.host.Insert(text); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

func (r *Runtime) luaMessage(L *lua.LState) int {
	r.host.Message(L.CheckString(1))
	return 0
}

// LoadInit runs an init script from path. A missing file is not an error.
func (r *Runtime) LoadInit(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := r.state.DoFile(path); err != nil {
		return fmt.Errorf("init script: %w", err)
	}
	return nil
}

// Eval runs a chunk of Lua source. Used by tests and the :lua command.
func (r *Runtime) Eval(src string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	return r.state.DoString(src)
}

// Has reports whether a user command is registered.
func (r *Runtime) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.commands[name]
	return ok
}

// Commands returns the registered user command names.
func (r *Runtime) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	return names
}

// Run invokes a registered user command with string arguments.
func (r *Runtime) Run(name string, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	fn, ok := r.commands[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrCommandNotFound, name)
	}

	tbl := r.state.NewTable()
	for _, a := range args {
		tbl.Append(lua.LString(a))
	}
	err := r.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, tbl)
	if err != nil {
		return fmt.Errorf("command %q: %w", name, err)
	}
	return nil
}

// Close shuts the Lua state down. Further calls error.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.state.Close()
}
