package schema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func TestNew_RejectsInvalidModels(t *testing.T) {
	cases := map[string]model.FormModel{
		"no fields": {ID: "empty"},
		"duplicate field": {Fields: []model.Field{
			{Name: "name"}, {Name: "name"},
		}},
		"dotted name": {Fields: []model.Field{{Name: "a.b"}}},
		"unknown group": {Discriminator: "kind", Fields: []model.Field{
			{Name: "kind"}, {Name: "salary", Group: "job"},
		}},
		"groups without discriminator": {
			Groups: []model.Group{{ID: "job", When: []string{"job"}}},
			Fields: []model.Field{{Name: "salary", Group: "job"}},
		},
		"grouped discriminator": {
			Discriminator: "kind",
			Groups:        []model.Group{{ID: "job", When: []string{"job"}}},
			Fields:        []model.Field{{Name: "kind", Group: "job"}},
		},
		"array without items": {Fields: []model.Field{{Name: "tags", Type: model.FieldTypeArray}}},
		"code without length": {Fields: []model.Field{{Name: "otp", Collector: model.CollectorCode}}},
		"bad pattern": {Fields: []model.Field{{Name: "zip", Validations: []model.ValidationRule{
			{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "("}},
		}}}},
		"bad threshold": {Fields: []model.Field{{Name: "age", Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "ten"}},
		}}}},
		"unregistered predicate": {Fields: []model.Field{{Name: "nick", Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleCustom, Params: map[string]string{"name": "nope"}},
		}}}},
		"unknown rule": {Fields: []model.Field{{Name: "nick", Validations: []model.ValidationRule{{Kind: "shout"}}}}},
	}

	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schema.New(form)
			if !errors.Is(err, schema.ErrInvalidSchema) {
				t.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	s, err := schema.New(model.FormModel{Fields: []model.Field{
		{Name: "nick"},
		{Name: "period", Collector: model.CollectorDateRange},
		{Name: "jobs", Type: model.FieldTypeArray, Items: &model.Field{
			Type:   model.FieldTypeObject,
			Nested: []model.Field{{Name: "company"}},
		}},
	}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	nick, _ := s.Field("nick")
	if nick.Type != model.FieldTypeString || nick.Presence != model.PresenceOptional {
		t.Fatalf("unexpected defaults: %+v", nick)
	}

	period, _ := s.Field("period")
	names := []string{}
	for _, child := range period.Nested {
		names = append(names, child.Name)
	}
	if diff := cmp.Diff([]string{"from", "to"}, names); diff != "" {
		t.Fatalf("date range children mismatch (-want +got):\n%s", diff)
	}

	jobs, _ := s.Field("jobs")
	if jobs.Repeat == nil || jobs.Repeat.Initial != 1 {
		t.Fatalf("expected one seeded record, got %+v", jobs.Repeat)
	}
}

func TestLookupAndDeclares(t *testing.T) {
	s := schema.Registration()

	cases := map[string]bool{
		"name":                  true,
		"experiences":           true,
		"experiences.0":         true,
		"experiences.3.company": true,
		"experiences.x.company": false,
		"experiences.-1.years":  false,
		"experiences.0.salary":  false,
		"dateRange.from":        true,
		"dateRange.until":       false,
		"name.first":            false,
		"unknown":               false,
	}
	for path, want := range cases {
		if got := s.Declares(path); got != want {
			t.Errorf("Declares(%q) = %v, want %v", path, got, want)
		}
	}

	field, ok := s.Lookup("experiences.1.years")
	if !ok || field.Type != model.FieldTypeNumber {
		t.Fatalf("unexpected lookup result %+v (ok=%v)", field, ok)
	}
}

func TestRegistrationGroups(t *testing.T) {
	s := schema.Registration()

	if s.Discriminator() != "category" {
		t.Fatalf("unexpected discriminator %q", s.Discriminator())
	}
	if diff := cmp.Diff([]string{"salary", "experience", "preferredShift", "remote"}, s.GroupFields(schema.GroupJob)); diff != "" {
		t.Fatalf("job group mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"feedbackType", "severity", "extraInfo"}, s.GroupFields(schema.GroupFeedback)); diff != "" {
		t.Fatalf("feedback group mismatch (-want +got):\n%s", diff)
	}

	var collectors []string
	for _, field := range s.Collectors() {
		collectors = append(collectors, field.Name+":"+string(field.Collector))
	}
	if diff := cmp.Diff([]string{"tags:tags", "otp:code", "dateRange:daterange"}, collectors); diff != "" {
		t.Fatalf("collectors mismatch (-want +got):\n%s", diff)
	}

	otp, _ := s.Field("otp")
	if n, ok := schema.RuleInt(otp, model.ValidationRuleLength); !ok || n != 4 {
		t.Fatalf("expected otp length 4, got %d (ok=%v)", n, ok)
	}
}

func TestWithPredicate(t *testing.T) {
	even := func(value any) bool {
		s, _ := value.(string)
		return len(s)%2 == 0
	}
	s, err := schema.New(model.FormModel{Fields: []model.Field{{
		Name:        "pin",
		Validations: []model.ValidationRule{{Kind: model.ValidationRuleCustom, Params: map[string]string{"name": "even"}}},
	}}}, schema.WithPredicate("even", even))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	fn, ok := s.Predicate("even")
	if !ok || !fn("ab") || fn("abc") {
		t.Fatalf("predicate not registered correctly")
	}
}
