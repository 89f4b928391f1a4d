package submission

import (
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Compose builds the payload from snap, leaving out fields of inactive groups.
func Compose(s *schema.Schema, snap state.Snapshot, active visibility.Set) Payload {
	values := snap.Values()
	payload := make(Payload, len(values))
	for _, field := range s.Fields() {
		if !visibility.Active(field, active) {
			continue
		}
		if value, ok := values[field.Name]; ok {
			payload[field.Name] = value
		}
	}
	return payload
}
