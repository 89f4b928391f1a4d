// Package collectors holds small pieces of local form state (tag lists,
// per-character codes, date ranges) that live outside the value tree until
// they are merged into it before validation and submit.
package collectors

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
)

var (
	// ErrSlotOutOfRange is returned for code slot indices outside [0, N).
	ErrSlotOutOfRange = errors.New("collectors: slot out of range")
	// ErrTagOutOfRange is returned when removing a tag index that does not exist.
	ErrTagOutOfRange = errors.New("collectors: tag index out of range")
	// ErrInvalidRange is returned for ranges with an end but no start, or an
	// end before the start.
	ErrInvalidRange = errors.New("collectors: invalid date range")
)

// Collector is the merge contract shared by every collector.
type Collector interface {
	// Kind identifies the collector type.
	Kind() model.CollectorKind
	// Value returns the value written into the tree on merge.
	Value() any
}

// Set binds collectors to the schema paths they merge into.
type Set map[string]Collector

// ForSchema creates one collector per field bound to a collector kind.
func ForSchema(s *schema.Schema, policy TagPolicy) Set {
	set := make(Set)
	for _, field := range s.Collectors() {
		switch field.Collector {
		case model.CollectorTags:
			set[field.Name] = NewTags(policy)
		case model.CollectorCode:
			n, _ := schema.RuleInt(field, model.ValidationRuleLength)
			set[field.Name] = NewCode(n)
		case model.CollectorDateRange:
			set[field.Name] = NewDateRange()
		}
	}
	return set
}

// Paths returns the bound paths sorted.
func (s Set) Paths() []string {
	out := make([]string, 0, len(s))
	for path := range s {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Tags returns the tag collector bound at path.
func (s Set) Tags(path string) (*Tags, bool) {
	c, ok := s[path].(*Tags)
	return c, ok
}

// Code returns the code collector bound at path.
func (s Set) Code(path string) (*Code, bool) {
	c, ok := s[path].(*Code)
	return c, ok
}

// DateRange returns the date range collector bound at path.
func (s Set) DateRange(path string) (*DateRange, bool) {
	c, ok := s[path].(*DateRange)
	return c, ok
}

// MergeError reports the collector path that could not be written.
type MergeError struct {
	Path string
	Err  error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("collectors: merge %s: %v", e.Path, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// Merge copies every collector value into its path. Collectors keep their
// state, so merging again without edits writes the same values. Merge stops
// at the first failing path and returns a *MergeError.
func Merge(store *state.Store, set Set) error {
	for _, path := range set.Paths() {
		if err := store.Set(path, set[path].Value()); err != nil {
			return &MergeError{Path: path, Err: err}
		}
	}
	return nil
}
