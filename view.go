package formstate

import (
	"strconv"

	"github.com/goliatone/go-formstate/pkg/collectors"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// FieldView is what a renderer needs to draw one input.
type FieldView struct {
	Path      string
	Label     string
	Type      model.FieldType
	Format    string
	Enum      []string
	Required  bool
	Group     string
	Active    bool
	Collector model.CollectorKind
	Value     any
	Error     string
}

// RecordView is one row of a repeatable group.
type RecordView struct {
	Index  int
	Fields []FieldView
}

// GroupView lists the rows of a repeatable group.
type GroupView struct {
	Name  string
	Label string
	Rows  []RecordView
}

// CollectorView exposes the pending state of one collector.
type CollectorView struct {
	Path     string
	Kind     model.CollectorKind
	Tags     []string
	Slots    []string
	Complete bool
	From     string
	To       string
	Filled   bool
}

// View is a consistent picture of the session taken under one lock.
type View struct {
	ID           string
	Title        string
	State        State
	ActiveGroups []string
	Fields       []FieldView
	Repeats      []GroupView
	Collectors   []CollectorView
	Errors       ErrorMap
}

// View returns the render state of the session. Record arrays appear in
// Repeats rather than Fields.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.store.Snapshot()
	view := View{
		ID:           s.id,
		Title:        s.schema.Title(),
		State:        s.gate.State(),
		ActiveGroups: s.active.IDs(),
		Errors:       s.errs.Clone(),
	}

	for _, field := range s.schema.Fields() {
		if field.IsRecordArray() {
			view.Repeats = append(view.Repeats, s.groupView(field, snap))
			continue
		}
		view.Fields = append(view.Fields, s.fieldView(field.Name, field, snap, s.active))
	}
	for _, path := range s.collectors.Paths() {
		view.Collectors = append(view.Collectors, collectorView(path, s.collectors[path]))
	}
	return view
}

func (s *Session) fieldView(path string, field model.Field, snap state.Snapshot, active visibility.Set) FieldView {
	value, _ := snap.Get(path)
	return FieldView{
		Path:      path,
		Label:     field.DisplayLabel(),
		Type:      field.Type,
		Format:    field.Format,
		Enum:      append([]string(nil), field.Enum...),
		Required:  field.Required(),
		Group:     field.Group,
		Active:    visibility.Active(field, active),
		Collector: field.Collector,
		Value:     value,
		Error:     s.errs.Get(path),
	}
}

func (s *Session) groupView(field model.Field, snap state.Snapshot) GroupView {
	group := GroupView{Name: field.Name, Label: field.DisplayLabel()}
	active := visibility.Active(field, s.active)
	records, _ := snap.Get(field.Name)
	rows, _ := records.([]any)
	for i := range rows {
		row := RecordView{Index: i}
		prefix := field.Name + "." + strconv.Itoa(i)
		for _, child := range field.Items.Nested {
			fv := s.fieldView(prefix+"."+child.Name, child, snap, s.active)
			fv.Active = fv.Active && active
			row.Fields = append(row.Fields, fv)
		}
		group.Rows = append(group.Rows, row)
	}
	return group
}

func collectorView(path string, c collectors.Collector) CollectorView {
	view := CollectorView{Path: path, Kind: c.Kind()}
	switch v := c.(type) {
	case *collectors.Tags:
		view.Tags = v.Values()
	case *collectors.Code:
		view.Slots = make([]string, v.Size())
		for i := range view.Slots {
			view.Slots[i] = v.Slot(i)
		}
		view.Complete = v.Complete()
	case *collectors.DateRange:
		start, end := v.Range()
		if start != nil {
			view.From = start.Format(collectors.DateLayout)
		}
		if end != nil {
			view.To = end.Format(collectors.DateLayout)
		}
		view.Filled = v.Filled()
	}
	return view
}
