package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Presence controls whether an empty value is checked against the field's
// rules (required) or skipped (optional).
type Presence string

const (
	PresenceRequired Presence = "required"
	PresenceOptional Presence = "optional"
)

// CollectorKind binds a field to an ancillary collector whose local state is
// merged into the value tree before validation on submit.
type CollectorKind string

const (
	CollectorNone      CollectorKind = ""
	CollectorTags      CollectorKind = "tags"
	CollectorCode      CollectorKind = "code"
	CollectorDateRange CollectorKind = "daterange"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRuleLength    = "length"
	ValidationRulePattern   = "pattern"
	ValidationRuleEmail     = "email"
	ValidationRuleAccepted  = "accepted"
	ValidationRuleCustom    = "custom"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"],
// pattern rules keep the expression in Params["pattern"] and custom rules name
// a predicate registered on the schema in Params["name"].
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Repeat configures record arrays.
type Repeat struct {
	Initial int `json:"initial" yaml:"initial"`
}

// Field models an individual input inside a form.
type Field struct {
	Name        string           `json:"name" yaml:"name"`
	Type        FieldType        `json:"type" yaml:"type"`
	Format      string           `json:"format,omitempty" yaml:"format,omitempty"`
	Presence    Presence         `json:"presence,omitempty" yaml:"presence,omitempty"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []string         `json:"enum,omitempty" yaml:"enum,omitempty"`
	Group       string           `json:"group,omitempty" yaml:"group,omitempty"`
	Collector   CollectorKind    `json:"collector,omitempty" yaml:"collector,omitempty"`
	Items       *Field           `json:"items,omitempty" yaml:"items,omitempty"`
	Nested      []Field          `json:"nested,omitempty" yaml:"nested,omitempty"`
	Repeat      *Repeat          `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// Required reports whether the field's presence rule is required.
func (f Field) Required() bool {
	return f.Presence == PresenceRequired
}

// IsRecordArray reports whether the field is a repeatable group of records.
func (f Field) IsRecordArray() bool {
	return f.Type == FieldTypeArray && f.Items != nil && f.Items.Type == FieldTypeObject
}

// Group names one optional, conditionally active set of fields. The group is
// active when the discriminator field equals one of When.
type Group struct {
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
	When  []string `json:"when" yaml:"when"`
}

// FormModel is the top-level declarative description of a form.
type FormModel struct {
	ID            string  `json:"id" yaml:"id"`
	Title         string  `json:"title,omitempty" yaml:"title,omitempty"`
	Discriminator string  `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
	Groups        []Group `json:"groups,omitempty" yaml:"groups,omitempty"`
	Fields        []Field `json:"fields" yaml:"fields"`
}
