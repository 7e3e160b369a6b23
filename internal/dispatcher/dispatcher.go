// Package dispatcher routes named actions from the modal interpreter to
// handler functions bound to the editor core.
package dispatcher

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/loom/internal/input/mode"
)

// ErrUnknownAction indicates no handler is registered for an action name.
var ErrUnknownAction = errors.New("unknown action")

// Args wraps action arguments with typed accessors.
type Args map[string]any

// Str returns the string argument for key, or "".
func (a Args) Str(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the int argument for key, or def.
func (a Args) Int(key string, def int) int {
	if v, ok := a[key].(int); ok {
		return v
	}
	return def
}

// Bool returns the bool argument for key, or false.
func (a Args) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// HandlerFunc executes one action.
type HandlerFunc func(args Args) error

// Dispatcher is the action registry. Thread-safe.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// New creates an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

// Register binds a handler to an action name, replacing any existing one.
func (d *Dispatcher) Register(name string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = fn
}

// Has reports whether an action name is registered.
func (d *Dispatcher) Has(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[name]
	return ok
}

// Dispatch executes one action.
func (d *Dispatcher) Dispatch(a mode.Action) error {
	d.mu.RLock()
	fn, ok := d.handlers[a.Name]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, a.Name)
	}
	return fn(Args(a.Args))
}

// DispatchAll executes actions in order, stopping at the first error.
func (d *Dispatcher) DispatchAll(actions []mode.Action) error {
	for _, a := range actions {
		if err := d.Dispatch(a); err != nil {
			return err
		}
	}
	return nil
}
