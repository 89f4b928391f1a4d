package state

// Snapshot is an immutable point-in-time copy of a value tree. Accessors
// return copies so callers cannot mutate the snapshot through them.
type Snapshot struct {
	values map[string]any
}

// SnapshotOf builds a snapshot from a plain value map.
func SnapshotOf(values map[string]any) Snapshot {
	return Snapshot{values: cloneValues(values)}
}

// Get resolves a dotted path.
func (s Snapshot) Get(path string) (any, bool) {
	value, ok := getPath(s.values, path)
	if !ok {
		return nil, false
	}
	return deepCopy(value), true
}

// String returns the text value at path, or "" when absent or not text.
func (s Snapshot) String(path string) string {
	value, ok := getPath(s.values, path)
	if !ok {
		return ""
	}
	text, _ := value.(string)
	return text
}

// Values returns a deep copy of the whole tree.
func (s Snapshot) Values() map[string]any {
	return cloneValues(s.values)
}
