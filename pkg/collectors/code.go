package collectors

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Code is a fixed-length code entered one character per slot.
type Code struct {
	slots []string
}

// NewCode returns a code with n empty slots.
func NewCode(n int) *Code {
	if n < 0 {
		n = 0
	}
	return &Code{slots: make([]string, n)}
}

// Kind implements Collector.
func (c *Code) Kind() model.CollectorKind { return model.CollectorCode }

// Size returns the number of slots.
func (c *Code) Size() int { return len(c.slots) }

// SetSlot stores the last character of text in slot i, replacing whatever
// was there. Empty text clears the slot.
func (c *Code) SetSlot(i int, text string) error {
	if i < 0 || i >= len(c.slots) {
		return fmt.Errorf("%w: %d (size %d)", ErrSlotOutOfRange, i, len(c.slots))
	}
	if text == "" {
		c.slots[i] = ""
		return nil
	}
	r, _ := utf8.DecodeLastRuneInString(text)
	c.slots[i] = string(r)
	return nil
}

// Slot returns the character in slot i.
func (c *Code) Slot(i int) string {
	if i < 0 || i >= len(c.slots) {
		return ""
	}
	return c.slots[i]
}

// Complete reports whether every slot is filled.
func (c *Code) Complete() bool {
	for _, slot := range c.slots {
		if slot == "" {
			return false
		}
	}
	return len(c.slots) > 0
}

// Reset clears every slot.
func (c *Code) Reset() {
	for i := range c.slots {
		c.slots[i] = ""
	}
}

// Value implements Collector. Filled slots are joined in slot order.
func (c *Code) Value() any {
	return strings.Join(c.slots, "")
}
