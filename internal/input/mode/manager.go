package mode

import (
	"fmt"
	"sync"

	"github.com/dshills/loom/internal/input/key"
)

// ChangeCallback is notified after a completed mode transition.
type ChangeCallback func(from, to string)

// Manager owns the registered modes and the active one. Transitions call
// Exit on the old mode and Enter on the new one, then fire callbacks.
// Thread-safe.
type Manager struct {
	mu        sync.RWMutex
	modes     map[string]Mode
	current   Mode
	callbacks []ChangeCallback
}

// NewManager creates a manager with no modes registered.
func NewManager() *Manager {
	return &Manager{modes: make(map[string]Mode)}
}

// Register adds a mode, replacing any mode with the same name. The first
// registered mode becomes current.
func (m *Manager) Register(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[mode.Name()] = mode
	if m.current == nil {
		m.current = mode
		mode.Enter()
	}
}

// Current returns the active mode.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentName returns the name of the active mode, or "" if none.
func (m *Manager) CurrentName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Get returns a registered mode by name, or nil.
func (m *Manager) Get(name string) Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modes[name]
}

// OnChange registers a transition callback.
func (m *Manager) OnChange(cb ChangeCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Switch transitions to the named mode. Switching to the current mode is a
// no-op.
func (m *Manager) Switch(name string) error {
	m.mu.Lock()
	next, ok := m.modes[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown mode: %s", name)
	}
	prev := m.current
	if prev == next {
		m.mu.Unlock()
		return nil
	}
	m.current = next
	cbs := append([]ChangeCallback(nil), m.callbacks...)
	m.mu.Unlock()

	from := ""
	if prev != nil {
		prev.Exit()
		from = prev.Name()
	}
	next.Enter()
	for _, cb := range cbs {
		cb(from, name)
	}
	return nil
}

// HandleKey forwards the event to the active mode.
func (m *Manager) HandleKey(ev key.Event) []Action {
	cur := m.Current()
	if cur == nil {
		return nil
	}
	return cur.HandleKey(ev)
}
