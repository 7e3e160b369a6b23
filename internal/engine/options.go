package engine

// Default configuration values.
const (
	DefaultTabWidth      = 4
	DefaultMaxUndoGroups = 1000
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabWidth sets the tab width for the engine.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithMaxUndoGroups sets the maximum number of undo groups retained.
func WithMaxUndoGroups(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoGroups = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
