// Package testsupport holds fixtures shared by the formstate test suites.
package testsupport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// RegistrationValues returns a values document that passes every rule of the
// registration form with the job group selected. Collector fields use their
// document shapes: the code as one string and tags as a list.
func RegistrationValues() map[string]any {
	return map[string]any{
		"name":          "Ada Lovelace",
		"email":         "ada@example.com",
		"password":      "analytical",
		"otp":           "1234",
		"age":           "36",
		"dob":           "1815-12-10",
		"maritalStatus": "married",
		"skills":        "mathematics",
		"gender":        "female",
		"country":       "UK",
		"city":          "London",
		"address":       "12 St James's Square",
		"phone":         "0123456789",
		"category":      "job",
		"agree":         true,
	}
}

// With returns a copy of values with overrides applied. A nil override
// removes the key.
func With(values map[string]any, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(values)+len(overrides))
	for k, v := range values {
		out[k] = v
	}
	for k, v := range overrides {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// WriteValues stores values as a JSON document under t.TempDir and returns
// its path.
func WriteValues(t *testing.T, values map[string]any) string {
	t.Helper()

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		t.Fatalf("marshal values: %v", err)
	}
	path := filepath.Join(t.TempDir(), "values.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write values: %v", err)
	}
	return path
}

// MustLoadFormModel loads a YAML or JSON fixture into a FormModel.
func MustLoadFormModel(t *testing.T, path string) model.FormModel {
	t.Helper()

	form, err := LoadFormModel(path)
	if err != nil {
		t.Fatalf("load form model: %v", err)
	}
	return form
}

// LoadFormModel reads a fixture into a FormModel, returning an error for
// callers managing setup outside of *testing.T.
func LoadFormModel(path string) (model.FormModel, error) {
	if path == "" {
		return model.FormModel{}, errors.New("testsupport: form model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("testsupport: read form model: %w", err)
	}
	return schema.Parse(data)
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written (test should exit early).
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden decodes a JSON golden file into out.
func MustReadGolden(t *testing.T, path string, out any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
