// Package repeater manages ordered lists of uniform records stored under a
// repeatable field. Records keep their insertion order; indices are always
// contiguous from zero.
package repeater

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
)

// ErrIndexOutOfRange is returned by Remove for indices outside [0, Len).
var ErrIndexOutOfRange = errors.New("repeater: index out of range")

// Manager edits the records of one repeatable field in a store.
type Manager struct {
	store *state.Store
	field model.Field
}

// New binds a manager to the repeatable field name.
func New(store *state.Store, name string) (*Manager, error) {
	field, ok := store.Schema().Field(name)
	if !ok || !field.IsRecordArray() {
		return nil, fmt.Errorf("repeater: %q is not a repeatable group: %w", name, state.ErrUndeclaredPath)
	}
	return &Manager{store: store, field: field}, nil
}

// Name returns the bound field name.
func (m *Manager) Name() string {
	return m.field.Name
}

// Len returns the number of records.
func (m *Manager) Len() int {
	records, _ := m.store.Records(m.field.Name)
	return len(records)
}

// Append adds one blank record at the end and returns its index.
func (m *Manager) Append() (int, error) {
	records, err := m.store.Records(m.field.Name)
	if err != nil {
		return 0, err
	}
	next := make([]any, len(records), len(records)+1)
	copy(next, records)
	next = append(next, state.BlankRecord(*m.field.Items))
	if err := m.store.ReplaceRecords(m.field.Name, next); err != nil {
		return 0, err
	}
	return len(next) - 1, nil
}

// Remove deletes the record at index; later records shift down by one.
func (m *Manager) Remove(index int) error {
	records, err := m.store.Records(m.field.Name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(records))
	}
	next := make([]any, 0, len(records)-1)
	next = append(next, records[:index]...)
	next = append(next, records[index+1:]...)
	return m.store.ReplaceRecords(m.field.Name, next)
}

// Records returns copies of the records in index order.
func (m *Manager) Records() []map[string]any {
	raw, ok := m.store.Get(m.field.Name)
	if !ok {
		return nil
	}
	list, _ := raw.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		record, _ := item.(map[string]any)
		out = append(out, record)
	}
	return out
}

// Path returns the dotted path of a record sub-field.
func (m *Manager) Path(index int, child string) string {
	return fmt.Sprintf("%s.%d.%s", m.field.Name, index, child)
}
