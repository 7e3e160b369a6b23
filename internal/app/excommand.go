package app

import (
	"fmt"
	"strings"

	"github.com/dshills/loom/internal/dispatcher"
)

// exHandler runs one ex-command with its arguments (the words after the
// command name).
type exHandler func(args []string) error

func (a *Application) registerExCommands() {
	a.exCmds = map[string]exHandler{
		"w":     a.cmdWrite,
		"write": a.cmdWrite,
		"q":     a.cmdQuit,
		"quit":  a.cmdQuit,
		"q!":    a.cmdQuitForce,
		"wq":    a.cmdWriteQuit,
		"x":     a.cmdWriteQuit,
		"lua":   a.cmdLua,
	}
}

// executeExAction is the dispatcher handler behind the command mode.
func (a *Application) executeExAction(args dispatcher.Args) error {
	return a.ExecuteEx(args.Str("line"))
}

// ExecuteEx runs an ex-command line such as "w file.txt". Built-ins are
// checked first, then Lua-registered user commands.
func (a *Application) ExecuteEx(line string) error {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return nil
	}
	name, rest := fields[0], fields[1:]

	if fn, ok := a.exCmds[name]; ok {
		return fn(rest)
	}
	if a.lua.Has(name) {
		return a.lua.Run(name, rest)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

func (a *Application) cmdWrite(args []string) error {
	var err error
	if len(args) > 0 {
		err = a.doc.SaveAs(args[0])
	} else {
		err = a.doc.Save()
	}
	if err != nil {
		return err
	}
	a.SetStatus(fmt.Sprintf("%q written", a.doc.Name()))
	return nil
}

func (a *Application) cmdQuit([]string) error {
	if a.doc.IsModified() {
		return ErrUnsavedChanges
	}
	a.Quit()
	return nil
}

func (a *Application) cmdQuitForce([]string) error {
	a.Quit()
	return nil
}

func (a *Application) cmdWriteQuit(args []string) error {
	if err := a.cmdWrite(args); err != nil {
		return err
	}
	a.Quit()
	return nil
}

// cmdLua evaluates its argument as a Lua chunk.
func (a *Application) cmdLua(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: lua <chunk>", ErrMissingArgument)
	}
	return a.lua.Eval(strings.Join(args, " "))
}
