package validation

import (
	"maps"
	"sort"
)

// ErrorMap maps a dotted field path to its current error message. A missing
// key means the field is valid.
type ErrorMap map[string]string

// Has reports whether path has an error.
func (m ErrorMap) Has(path string) bool {
	_, ok := m[path]
	return ok
}

// Get returns the message for path.
func (m ErrorMap) Get(path string) string {
	return m[path]
}

// Paths returns the failing paths sorted.
func (m ErrorMap) Paths() []string {
	out := make([]string, 0, len(m))
	for path := range m {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether no field failed.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// Clone returns an independent copy.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	maps.Copy(out, m)
	return out
}

// Equal reports whether both maps hold the same messages.
func (m ErrorMap) Equal(other ErrorMap) bool {
	return maps.Equal(m, other)
}
