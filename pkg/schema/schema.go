package schema

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
)

// ErrInvalidSchema is wrapped by every error New returns.
var ErrInvalidSchema = errors.New("schema: invalid form model")

// Predicate is a custom constraint registered under a name and referenced by
// `custom` validation rules. It reports whether value satisfies the rule.
type Predicate func(value any) bool

// Option configures schema construction.
type Option func(*options)

type options struct {
	predicates map[string]Predicate
}

// WithPredicate registers a named predicate for `custom` rules.
func WithPredicate(name string, fn Predicate) Option {
	return func(o *options) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		if o.predicates == nil {
			o.predicates = make(map[string]Predicate)
		}
		o.predicates[name] = fn
	}
}

// Schema is the immutable, validated view over a FormModel. It is safe to
// share across sessions and goroutines.
type Schema struct {
	id            string
	title         string
	fields        []model.Field
	index         map[string]int
	groups        []model.Group
	groupIndex    map[string]int
	discriminator string
	predicates    map[string]Predicate
	patterns      map[string]*regexp.Regexp
}

// New validates form and builds a Schema from it.
func New(form model.FormModel, opts ...Option) (*Schema, error) {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	s := &Schema{
		id:            strings.TrimSpace(form.ID),
		title:         form.Title,
		index:         make(map[string]int, len(form.Fields)),
		groupIndex:    make(map[string]int, len(form.Groups)),
		discriminator: strings.TrimSpace(form.Discriminator),
		predicates:    cfg.predicates,
		patterns:      make(map[string]*regexp.Regexp),
	}

	if len(form.Fields) == 0 {
		return nil, fmt.Errorf("%w: no fields declared", ErrInvalidSchema)
	}

	for _, group := range form.Groups {
		id := strings.TrimSpace(group.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: group with empty id", ErrInvalidSchema)
		}
		if _, exists := s.groupIndex[id]; exists {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidSchema, id)
		}
		group.ID = id
		group.When = slices.Clone(group.When)
		s.groupIndex[id] = len(s.groups)
		s.groups = append(s.groups, group)
	}

	for _, field := range form.Fields {
		normalized, err := s.normalizeField(field, true)
		if err != nil {
			return nil, err
		}
		if _, exists := s.index[normalized.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, normalized.Name)
		}
		s.index[normalized.Name] = len(s.fields)
		s.fields = append(s.fields, normalized)
	}

	if len(s.groups) > 0 && s.discriminator == "" {
		return nil, fmt.Errorf("%w: groups declared without a discriminator", ErrInvalidSchema)
	}
	if s.discriminator != "" {
		field, ok := s.Field(s.discriminator)
		if !ok {
			return nil, fmt.Errorf("%w: discriminator %q is not a field", ErrInvalidSchema, s.discriminator)
		}
		if field.Group != "" {
			return nil, fmt.Errorf("%w: discriminator %q cannot belong to group %q", ErrInvalidSchema, s.discriminator, field.Group)
		}
	}

	return s, nil
}

func (s *Schema) normalizeField(field model.Field, topLevel bool) (model.Field, error) {
	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		return field, fmt.Errorf("%w: field with empty name", ErrInvalidSchema)
	}
	if strings.Contains(field.Name, ".") {
		return field, fmt.Errorf("%w: field %q: names cannot contain '.'", ErrInvalidSchema, field.Name)
	}
	if field.Type == "" {
		field.Type = model.FieldTypeString
	}
	if field.Presence == "" {
		field.Presence = model.PresenceOptional
	}
	if field.Group != "" {
		if !topLevel {
			return field, fmt.Errorf("%w: field %q: only top-level fields can join a group", ErrInvalidSchema, field.Name)
		}
		if _, ok := s.groupIndex[field.Group]; !ok {
			return field, fmt.Errorf("%w: field %q references unknown group %q", ErrInvalidSchema, field.Name, field.Group)
		}
	}

	switch field.Collector {
	case model.CollectorNone:
	case model.CollectorTags:
		field.Type = model.FieldTypeArray
		if field.Items == nil {
			field.Items = &model.Field{Name: "tag", Type: model.FieldTypeString}
		}
	case model.CollectorCode:
		field.Type = model.FieldTypeString
		if _, ok := ruleInt(field, model.ValidationRuleLength); !ok {
			return field, fmt.Errorf("%w: field %q: code collector requires a length rule", ErrInvalidSchema, field.Name)
		}
	case model.CollectorDateRange:
		field.Type = model.FieldTypeObject
		if len(field.Nested) == 0 {
			field.Nested = []model.Field{
				{Name: "from", Type: model.FieldTypeString},
				{Name: "to", Type: model.FieldTypeString},
			}
		}
	default:
		return field, fmt.Errorf("%w: field %q: unknown collector %q", ErrInvalidSchema, field.Name, field.Collector)
	}

	if field.Type == model.FieldTypeArray {
		if field.Items == nil {
			return field, fmt.Errorf("%w: field %q: array requires items", ErrInvalidSchema, field.Name)
		}
		items, err := s.normalizeItems(*field.Items, field.Name)
		if err != nil {
			return field, err
		}
		field.Items = &items
		if field.IsRecordArray() && field.Repeat == nil {
			field.Repeat = &model.Repeat{Initial: 1}
		}
	}

	if len(field.Nested) > 0 {
		nested := make([]model.Field, 0, len(field.Nested))
		seen := make(map[string]struct{}, len(field.Nested))
		for _, child := range field.Nested {
			normalized, err := s.normalizeField(child, false)
			if err != nil {
				return field, err
			}
			if _, dup := seen[normalized.Name]; dup {
				return field, fmt.Errorf("%w: field %q: duplicate nested field %q", ErrInvalidSchema, field.Name, normalized.Name)
			}
			seen[normalized.Name] = struct{}{}
			nested = append(nested, normalized)
		}
		field.Nested = nested
	}

	field.Enum = slices.Clone(field.Enum)
	field.Validations = slices.Clone(field.Validations)
	for _, rule := range field.Validations {
		if err := s.compileRule(field.Name, rule); err != nil {
			return field, err
		}
	}
	return field, nil
}

func (s *Schema) normalizeItems(items model.Field, parent string) (model.Field, error) {
	if items.Name == "" {
		items.Name = "item"
	}
	if items.Type == model.FieldTypeObject && len(items.Nested) == 0 {
		return items, fmt.Errorf("%w: field %q: record items declare no fields", ErrInvalidSchema, parent)
	}
	return s.normalizeField(items, false)
}

func (s *Schema) compileRule(field string, rule model.ValidationRule) error {
	switch rule.Kind {
	case model.ValidationRuleMinLength, model.ValidationRuleMaxLength, model.ValidationRuleLength:
		if _, err := strconv.Atoi(rule.Params["value"]); err != nil {
			return fmt.Errorf("%w: field %q: rule %s needs an integer value", ErrInvalidSchema, field, rule.Kind)
		}
	case model.ValidationRuleMin, model.ValidationRuleMax:
		if _, err := strconv.ParseFloat(rule.Params["value"], 64); err != nil {
			return fmt.Errorf("%w: field %q: rule %s needs a numeric value", ErrInvalidSchema, field, rule.Kind)
		}
	case model.ValidationRulePattern:
		expr := rule.Params["pattern"]
		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("%w: field %q: pattern: %v", ErrInvalidSchema, field, err)
		}
		s.patterns[expr] = re
	case model.ValidationRuleCustom:
		name := rule.Params["name"]
		if _, ok := s.predicates[name]; !ok {
			return fmt.Errorf("%w: field %q: predicate %q is not registered", ErrInvalidSchema, field, name)
		}
	case model.ValidationRuleEmail, model.ValidationRuleAccepted:
	default:
		return fmt.Errorf("%w: field %q: unknown rule %q", ErrInvalidSchema, field, rule.Kind)
	}
	return nil
}

// ID returns the form identifier.
func (s *Schema) ID() string { return s.id }

// Title returns the human readable form title.
func (s *Schema) Title() string { return s.title }

// Discriminator names the field selecting the active group, or "".
func (s *Schema) Discriminator() string { return s.discriminator }

// Fields returns the top-level fields in declaration order. Callers must
// treat nested slices as read-only.
func (s *Schema) Fields() []model.Field {
	return slices.Clone(s.fields)
}

// Field returns the top-level field with the given name.
func (s *Schema) Field(name string) (model.Field, bool) {
	idx, ok := s.index[name]
	if !ok {
		return model.Field{}, false
	}
	return s.fields[idx], true
}

// Groups returns the conditional groups in declaration order.
func (s *Schema) Groups() []model.Group {
	return slices.Clone(s.groups)
}

// Group returns the group with the given id.
func (s *Schema) Group(id string) (model.Group, bool) {
	idx, ok := s.groupIndex[id]
	if !ok {
		return model.Group{}, false
	}
	return s.groups[idx], true
}

// GroupFields returns the names of the fields belonging to group id.
func (s *Schema) GroupFields(id string) []string {
	var out []string
	for _, field := range s.fields {
		if field.Group == id {
			out = append(out, field.Name)
		}
	}
	return out
}

// Predicate returns the named predicate.
func (s *Schema) Predicate(name string) (Predicate, bool) {
	fn, ok := s.predicates[name]
	return fn, ok
}

// Pattern returns the compiled expression for a pattern rule.
func (s *Schema) Pattern(expr string) (*regexp.Regexp, bool) {
	re, ok := s.patterns[expr]
	return re, ok
}

// Collectors returns the fields bound to ancillary collectors.
func (s *Schema) Collectors() []model.Field {
	var out []model.Field
	for _, field := range s.fields {
		if field.Collector != model.CollectorNone {
			out = append(out, field)
		}
	}
	return out
}

// Lookup resolves a dotted path to its descriptor. Supported shapes are
// `field`, `object.child` and `records.<index>.child`. The index is only
// checked for syntax; bounds belong to the value store.
func (s *Schema) Lookup(path string) (model.Field, bool) {
	segments := strings.Split(path, ".")
	root, ok := s.Field(segments[0])
	if !ok {
		return model.Field{}, false
	}
	switch {
	case len(segments) == 1:
		return root, true
	case len(segments) == 2 && root.Type == model.FieldTypeObject:
		return nestedField(root.Nested, segments[1])
	case len(segments) == 2 && root.IsRecordArray():
		if _, err := parseIndex(segments[1]); err != nil {
			return model.Field{}, false
		}
		return *root.Items, true
	case len(segments) == 3 && root.IsRecordArray():
		if _, err := parseIndex(segments[1]); err != nil {
			return model.Field{}, false
		}
		return nestedField(root.Items.Nested, segments[2])
	}
	return model.Field{}, false
}

// Declares reports whether path addresses a value declared by the schema.
func (s *Schema) Declares(path string) bool {
	_, ok := s.Lookup(path)
	return ok
}

// RuleInt returns the integer parameter of the first rule of kind.
func RuleInt(field model.Field, kind string) (int, bool) {
	return ruleInt(field, kind)
}

func ruleInt(field model.Field, kind string) (int, bool) {
	for _, rule := range field.Validations {
		if rule.Kind != kind {
			continue
		}
		n, err := strconv.Atoi(rule.Params["value"])
		return n, err == nil
	}
	return 0, false
}

func nestedField(fields []model.Field, name string) (model.Field, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return model.Field{}, false
}

func parseIndex(raw string) (int, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, fmt.Errorf("negative index %d", idx)
	}
	return idx, nil
}
