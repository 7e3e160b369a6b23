package vim

import "math"

// countState accumulates a count prefix during parsing.
type countState struct {
	value  int
	active bool
}

func (c *countState) reset() {
	c.value = 0
	c.active = false
}

// accumulate adds an ASCII digit to the count. A leading '0' is rejected;
// it is the line-start motion, not a count.
func (c *countState) accumulate(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}
	digit := int(r - '0')
	if !c.active && digit == 0 {
		return false
	}
	c.active = true
	if c.value > (math.MaxInt-digit)/10 {
		c.value = math.MaxInt / 10
		return true
	}
	c.value = c.value*10 + digit
	return true
}

// get returns the effective count (1 when none was typed).
func (c *countState) get() int {
	if c.value <= 0 {
		return 1
	}
	return c.value
}
