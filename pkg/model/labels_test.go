package model

import "testing"

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"name":            "Name",
		"maritalStatus":   "Marital status",
		"preferred_shift": "Preferred shift",
		"line2":           "Line 2",
		"":                "",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFieldDisplayLabelPrefersExplicit(t *testing.T) {
	field := Field{Name: "dob", Label: "Date of birth"}
	if got := field.DisplayLabel(); got != "Date of birth" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestIsRecordArray(t *testing.T) {
	records := Field{Name: "experiences", Type: FieldTypeArray, Items: &Field{Type: FieldTypeObject}}
	tags := Field{Name: "tags", Type: FieldTypeArray, Items: &Field{Type: FieldTypeString}}
	if !records.IsRecordArray() {
		t.Fatalf("expected record array")
	}
	if tags.IsRecordArray() {
		t.Fatalf("string array reported as record array")
	}
}
