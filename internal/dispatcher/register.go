package dispatcher

import "sync"

// Register is the yank buffer shared by delete, yank, and paste. Linewise
// content pastes as whole lines.
type Register struct {
	mu       sync.Mutex
	text     string
	linewise bool
}

// NewRegister creates an empty register.
func NewRegister() *Register {
	return &Register{}
}

// Set stores yanked text.
func (r *Register) Set(text string, linewise bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = text
	r.linewise = linewise
}

// Get returns the stored text and whether it is linewise.
func (r *Register) Get() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text, r.linewise
}

// IsEmpty returns true if nothing has been yanked.
func (r *Register) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text == ""
}
