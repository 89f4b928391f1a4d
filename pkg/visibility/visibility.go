// Package visibility resolves which conditional field groups are active for
// the current value of the discriminator field. Inactive groups keep their
// values in the tree but are skipped by validation and left out of payloads.
package visibility

import (
	"fmt"
	"slices"
	"sort"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
)

// InactivePolicy decides what happens to a group's values when a
// discriminator change deactivates it.
type InactivePolicy string

const (
	// RetainInactive keeps values so switching back restores them.
	RetainInactive InactivePolicy = "retain"
	// ClearInactive resets the deactivated group's fields to their defaults.
	ClearInactive InactivePolicy = "clear"
)

// ParsePolicy converts a configuration string into a policy.
func ParsePolicy(raw string) (InactivePolicy, error) {
	switch InactivePolicy(raw) {
	case "", RetainInactive:
		return RetainInactive, nil
	case ClearInactive:
		return ClearInactive, nil
	}
	return "", fmt.Errorf("visibility: unknown inactive policy %q", raw)
}

// Set is the set of active group ids.
type Set map[string]struct{}

// Has reports whether id is active.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the active ids sorted.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ActiveGroups returns the groups selected by discriminatorValue. An empty
// value selects nothing.
func ActiveGroups(s *schema.Schema, discriminatorValue string) Set {
	active := make(Set)
	if discriminatorValue == "" {
		return active
	}
	for _, group := range s.Groups() {
		if slices.Contains(group.When, discriminatorValue) {
			active[group.ID] = struct{}{}
		}
	}
	return active
}

// Resolve reads the discriminator from snap and returns the active groups.
func Resolve(s *schema.Schema, snap state.Snapshot) Set {
	if s.Discriminator() == "" {
		return make(Set)
	}
	return ActiveGroups(s, snap.String(s.Discriminator()))
}

// Active reports whether field takes part in validation and payloads.
// Ungrouped fields are always active.
func Active(field model.Field, active Set) bool {
	return field.Group == "" || active.Has(field.Group)
}

// Deactivated returns the groups active in before but not in after.
func Deactivated(before, after Set) []string {
	var out []string
	for _, id := range before.IDs() {
		if !after.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
