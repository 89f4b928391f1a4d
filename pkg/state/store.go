package state

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
)

var (
	// ErrUndeclaredPath is returned when a path is not declared by the schema
	// or addresses a record index that does not exist.
	ErrUndeclaredPath = errors.New("state: undeclared path")
	// ErrTypeMismatch is returned when a value does not fit the declared type.
	ErrTypeMismatch = errors.New("state: value does not match field type")
)

// Store holds the value tree of one form session keyed by dotted paths. It is
// not safe for concurrent use; sessions serialise access.
type Store struct {
	schema *schema.Schema
	values map[string]any
}

// New seeds a store with the default value of every declared field.
func New(s *schema.Schema) *Store {
	store := &Store{schema: s, values: make(map[string]any)}
	for _, field := range s.Fields() {
		store.values[field.Name] = DefaultValue(field)
	}
	return store
}

// Schema returns the schema the store was built from.
func (s *Store) Schema() *schema.Schema {
	return s.schema
}

// Get resolves a dotted path into the value tree.
func (s *Store) Get(path string) (any, bool) {
	value, ok := getPath(s.values, path)
	if !ok {
		return nil, false
	}
	return deepCopy(value), true
}

// Set writes value at path. Undeclared paths and record indices beyond the
// current length fail with ErrUndeclaredPath and leave the tree untouched.
func (s *Store) Set(path string, value any) error {
	field, ok := s.schema.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndeclaredPath, path)
	}
	if err := s.checkIndex(path); err != nil {
		return err
	}
	normalized, err := normalize(field, value)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrTypeMismatch, path, err)
	}
	return setPath(s.values, path, normalized)
}

// Reset restores the declared default at path.
func (s *Store) Reset(path string) error {
	field, ok := s.schema.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndeclaredPath, path)
	}
	if err := s.checkIndex(path); err != nil {
		return err
	}
	return setPath(s.values, path, DefaultValue(field))
}

// Snapshot returns an immutable point-in-time copy of the value tree.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{values: cloneValues(s.values)}
}

// Records returns the record list stored under a repeatable field.
func (s *Store) Records(name string) ([]any, error) {
	field, ok := s.schema.Field(name)
	if !ok || !field.IsRecordArray() {
		return nil, fmt.Errorf("%w: %q is not a repeatable group", ErrUndeclaredPath, name)
	}
	records, _ := s.values[name].([]any)
	return records, nil
}

// ReplaceRecords swaps the record list stored under a repeatable field. The
// slice is stored as is; callers hand over ownership.
func (s *Store) ReplaceRecords(name string, records []any) error {
	if _, err := s.Records(name); err != nil {
		return err
	}
	if records == nil {
		records = []any{}
	}
	s.values[name] = records
	return nil
}

func (s *Store) checkIndex(path string) error {
	segments := strings.Split(path, ".")
	if len(segments) < 2 {
		return nil
	}
	records, ok := s.values[segments[0]].([]any)
	if !ok {
		return nil
	}
	idx, err := strconv.Atoi(segments[1])
	if err != nil || idx < 0 || idx >= len(records) {
		return fmt.Errorf("%w: %q: index out of range", ErrUndeclaredPath, path)
	}
	return nil
}

// DefaultValue returns the zero value the store seeds for field.
func DefaultValue(field model.Field) any {
	switch field.Type {
	case model.FieldTypeBoolean:
		if v, ok := field.Default.(bool); ok {
			return v
		}
		return false
	case model.FieldTypeArray:
		if field.IsRecordArray() {
			initial := 0
			if field.Repeat != nil {
				initial = field.Repeat.Initial
			}
			records := make([]any, 0, initial)
			for i := 0; i < initial; i++ {
				records = append(records, BlankRecord(*field.Items))
			}
			return records
		}
		return []any{}
	case model.FieldTypeObject:
		return BlankRecord(field)
	default:
		if field.Default != nil {
			return fmt.Sprint(field.Default)
		}
		return ""
	}
}

// BlankRecord returns a record with every nested field at its default.
// Object children without a declared default are nil so ranges and similar
// pairs can express "unset".
func BlankRecord(field model.Field) map[string]any {
	record := make(map[string]any, len(field.Nested))
	for _, child := range field.Nested {
		if field.Collector == model.CollectorDateRange {
			record[child.Name] = nil
			continue
		}
		record[child.Name] = DefaultValue(child)
	}
	return record
}

func normalize(field model.Field, value any) (any, error) {
	if value == nil {
		return DefaultValue(field), nil
	}
	switch field.Type {
	case model.FieldTypeBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("expected boolean, got %q", v)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected boolean, got %T", value)
	case model.FieldTypeString, model.FieldTypeNumber:
		switch v := value.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		case int, int32, int64, float32, float64, uint, uint32, uint64:
			return fmt.Sprint(v), nil
		}
		return nil, fmt.Errorf("expected text, got %T", value)
	case model.FieldTypeArray:
		switch v := value.(type) {
		case []any:
			return deepCopy(v), nil
		case []string:
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = item
			}
			return out, nil
		case []map[string]any:
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = deepCopy(item)
			}
			return out, nil
		}
		return nil, fmt.Errorf("expected list, got %T", value)
	case model.FieldTypeObject:
		if v, ok := value.(map[string]any); ok {
			return deepCopy(v), nil
		}
		return nil, fmt.Errorf("expected object, got %T", value)
	}
	return deepCopy(value), nil
}
