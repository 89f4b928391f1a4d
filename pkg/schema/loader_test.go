package schema_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
)

const contactYAML = `
id: contact
title: Contact
discriminator: reason
groups:
  - id: sales
    when: [sales]
fields:
  - name: reason
    presence: required
    enum: [sales, support]
    validations:
      - kind: minLength
        params: {value: "1"}
        message: Pick a reason
  - name: budget
    type: number
    group: sales
    validations:
      - kind: min
        params: {value: "100"}
`

func TestLoadFS_YAML(t *testing.T) {
	fsys := fstest.MapFS{"forms/contact.yaml": {Data: []byte(contactYAML)}}

	s, err := schema.LoadFS(fsys, "forms/contact.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.ID() != "contact" || s.Discriminator() != "reason" {
		t.Fatalf("unexpected schema header %q/%q", s.ID(), s.Discriminator())
	}
	budget, ok := s.Field("budget")
	if !ok {
		t.Fatalf("budget field missing")
	}
	want := []model.ValidationRule{{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "100"}}}
	if diff := cmp.Diff(want, budget.Validations); diff != "" {
		t.Fatalf("budget rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_JSON(t *testing.T) {
	form, err := schema.Parse([]byte(`{"id":"j","fields":[{"name":"agree","type":"boolean"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if form.ID != "j" || len(form.Fields) != 1 || form.Fields[0].Type != model.FieldTypeBoolean {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := schema.Parse([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	original := schema.Registration()
	data, err := original.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	reloaded, err := schema.Load(data)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(original.Model(), reloaded.Model()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
