// Package model defines the declarative field descriptors consumed by the
// schema, validator and renderers. A FormModel lists every field of a form,
// the optional discriminator that selects conditional groups, and the groups
// themselves. Validation rules expose canonical identifiers (minLength,
// length, min, pattern, email, accepted, custom) with string parameters so
// documents stay loadable from YAML or JSON without losing precision.
package model
