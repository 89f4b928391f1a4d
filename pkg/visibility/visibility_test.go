package visibility_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

func TestActiveGroups(t *testing.T) {
	s := schema.Registration()

	cases := map[string][]string{
		"":         {},
		"job":      {schema.GroupJob},
		"feedback": {schema.GroupFeedback},
		"other":    {},
	}
	for value, want := range cases {
		got := visibility.ActiveGroups(s, value).IDs()
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ActiveGroups(%q) mismatch (-want +got):\n%s", value, diff)
		}
	}
}

func TestResolveReadsDiscriminator(t *testing.T) {
	s := schema.Registration()
	store := state.New(s)
	_ = store.Set("category", "feedback")

	active := visibility.Resolve(s, store.Snapshot())
	if !active.Has(schema.GroupFeedback) || active.Has(schema.GroupJob) {
		t.Fatalf("unexpected active set %v", active.IDs())
	}
}

func TestActiveField(t *testing.T) {
	active := visibility.Set{schema.GroupJob: {}}
	if !visibility.Active(model.Field{Name: "name"}, active) {
		t.Fatalf("ungrouped field must be active")
	}
	if !visibility.Active(model.Field{Name: "salary", Group: schema.GroupJob}, active) {
		t.Fatalf("job field must be active")
	}
	if visibility.Active(model.Field{Name: "severity", Group: schema.GroupFeedback}, active) {
		t.Fatalf("feedback field must be inactive")
	}
}

func TestDeactivated(t *testing.T) {
	before := visibility.Set{schema.GroupJob: {}}
	after := visibility.Set{schema.GroupFeedback: {}}
	if diff := cmp.Diff([]string{schema.GroupJob}, visibility.Deactivated(before, after)); diff != "" {
		t.Fatalf("deactivated mismatch (-want +got):\n%s", diff)
	}
	if got := visibility.Deactivated(after, after); len(got) != 0 {
		t.Fatalf("expected nothing deactivated, got %v", got)
	}
}

func TestParsePolicy(t *testing.T) {
	for raw, want := range map[string]visibility.InactivePolicy{
		"":       visibility.RetainInactive,
		"retain": visibility.RetainInactive,
		"clear":  visibility.ClearInactive,
	} {
		got, err := visibility.ParsePolicy(raw)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := visibility.ParsePolicy("wipe"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
