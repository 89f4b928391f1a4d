package state_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
)

func TestNew_SeedsEveryDeclaredField(t *testing.T) {
	s := schema.Registration()
	store := state.New(s)
	snap := store.Snapshot()

	for _, field := range s.Fields() {
		if _, ok := snap.Get(field.Name); !ok {
			t.Errorf("field %q has no seeded value", field.Name)
		}
	}

	want := map[string]any{
		"name":      "",
		"agree":     false,
		"tags":      []any{},
		"dateRange": map[string]any{"from": nil, "to": nil},
		"experiences": []any{
			map[string]any{"company": "", "years": ""},
		},
	}
	values := snap.Values()
	for key, expected := range want {
		if diff := cmp.Diff(expected, values[key]); diff != "" {
			t.Errorf("default for %q mismatch (-want +got):\n%s", key, diff)
		}
	}
}

func TestSet_UndeclaredPathFailsLoudly(t *testing.T) {
	store := state.New(schema.Registration())
	before := store.Snapshot().Values()

	for _, path := range []string{"nickname", "experiences.5.company", "experiences.0.salary", "name.first"} {
		err := store.Set(path, "x")
		if !errors.Is(err, state.ErrUndeclaredPath) {
			t.Fatalf("Set(%q): expected ErrUndeclaredPath, got %v", path, err)
		}
	}

	if diff := cmp.Diff(before, store.Snapshot().Values()); diff != "" {
		t.Fatalf("store mutated by rejected writes (-want +got):\n%s", diff)
	}
}

func TestSet_NormalizesValues(t *testing.T) {
	store := state.New(schema.Registration())

	if err := store.Set("age", 42); err != nil {
		t.Fatalf("set age: %v", err)
	}
	if err := store.Set("agree", "true"); err != nil {
		t.Fatalf("set agree: %v", err)
	}
	if err := store.Set("files", []string{"cv.pdf"}); err != nil {
		t.Fatalf("set files: %v", err)
	}
	if err := store.Set("agree", 3); !errors.Is(err, state.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	snap := store.Snapshot()
	if snap.String("age") != "42" {
		t.Fatalf("expected age as text, got %q", snap.String("age"))
	}
	if v, _ := snap.Get("agree"); v != true {
		t.Fatalf("expected agree=true, got %v", v)
	}
	if v, _ := snap.Get("files"); !cmp.Equal(v, []any{"cv.pdf"}) {
		t.Fatalf("unexpected files %v", v)
	}
}

func TestSet_RecordSubField(t *testing.T) {
	store := state.New(schema.Registration())
	if err := store.Set("experiences.0.company", "Acme"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := store.Get("experiences.0.company")
	if !ok || got != "Acme" {
		t.Fatalf("unexpected value %v (ok=%v)", got, ok)
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	store := state.New(schema.Registration())
	_ = store.Set("name", "Ada")
	snap := store.Snapshot()

	_ = store.Set("name", "Grace")
	_ = store.Set("experiences.0.company", "Later")
	values := snap.Values()
	values["name"] = "mutated"

	if snap.String("name") != "Ada" {
		t.Fatalf("snapshot changed: %q", snap.String("name"))
	}
	if v, _ := snap.Get("experiences.0.company"); v != "" {
		t.Fatalf("snapshot record changed: %v", v)
	}
}

func TestReset(t *testing.T) {
	store := state.New(schema.Registration())
	_ = store.Set("salary", "5000")
	if err := store.Reset("salary"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if v, _ := store.Get("salary"); v != "" {
		t.Fatalf("expected cleared salary, got %v", v)
	}
	if err := store.Reset("bogus"); !errors.Is(err, state.ErrUndeclaredPath) {
		t.Fatalf("expected ErrUndeclaredPath, got %v", err)
	}
}
