package collectors

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
)

// TagPolicy controls normalisation of tag text. The zero value appends text
// verbatim and keeps duplicates.
type TagPolicy struct {
	Trim   bool `json:"trim" koanf:"trim"`
	Dedupe bool `json:"dedupe" koanf:"dedupe"`
}

// Tags is an ordered, append-at-end list of free-text tags.
type Tags struct {
	policy TagPolicy
	values []string
}

// NewTags returns an empty tag list.
func NewTags(policy TagPolicy) *Tags {
	return &Tags{policy: policy}
}

// Kind implements Collector.
func (t *Tags) Kind() model.CollectorKind { return model.CollectorTags }

// Add appends text and reports whether it was accepted. Empty text is
// rejected; with Dedupe an existing tag is rejected too.
func (t *Tags) Add(text string) bool {
	if t.policy.Trim {
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return false
	}
	if t.policy.Dedupe && slices.Contains(t.values, text) {
		return false
	}
	t.values = append(t.values, text)
	return true
}

// Remove deletes the tag at index.
func (t *Tags) Remove(index int) error {
	if index < 0 || index >= len(t.values) {
		return fmt.Errorf("%w: %d (len %d)", ErrTagOutOfRange, index, len(t.values))
	}
	t.values = slices.Delete(t.values, index, index+1)
	return nil
}

// Values returns a copy of the tags in order.
func (t *Tags) Values() []string {
	return slices.Clone(t.values)
}

// Len returns the number of tags.
func (t *Tags) Len() int { return len(t.values) }

// Value implements Collector.
func (t *Tags) Value() any {
	out := make([]any, len(t.values))
	for i, tag := range t.values {
		out[i] = tag
	}
	return out
}
