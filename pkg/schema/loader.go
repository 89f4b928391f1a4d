package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Parse decodes a JSON or YAML form document. JSON is attempted first so
// strict JSON errors are not masked by the more permissive YAML decoder.
func Parse(data []byte) (model.FormModel, error) {
	var form model.FormModel
	if len(strings.TrimSpace(string(data))) == 0 {
		return form, fmt.Errorf("schema: document is empty")
	}
	if err := json.Unmarshal(data, &form); err == nil {
		return form, nil
	}
	form = model.FormModel{}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return model.FormModel{}, fmt.Errorf("schema: parse document: invalid JSON or YAML: %w", err)
	}
	return form, nil
}

// Load parses data and builds a Schema from it.
func Load(data []byte, opts ...Option) (*Schema, error) {
	form, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(form, opts...)
}

// LoadFile reads a JSON or YAML document from disk.
func LoadFile(path string, opts ...Option) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	s, err := Load(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}
	return s, nil
}

// LoadFS reads a JSON or YAML document from fsys.
func LoadFS(fsys fs.FS, name string, opts ...Option) (*Schema, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", name, err)
	}
	s, err := Load(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", name, err)
	}
	return s, nil
}

// Marshal renders the schema back into a YAML document.
func (s *Schema) Marshal() ([]byte, error) {
	return yaml.Marshal(s.Model())
}

// Model returns a FormModel equivalent to the schema.
func (s *Schema) Model() model.FormModel {
	return model.FormModel{
		ID:            s.id,
		Title:         s.title,
		Discriminator: s.discriminator,
		Groups:        s.Groups(),
		Fields:        s.Fields(),
	}
}
