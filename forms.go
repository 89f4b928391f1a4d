package formstate

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/schema"
)

//go:embed forms/*.yaml
var embeddedForms embed.FS

// RegistrationForm names the built-in registration schema.
const RegistrationForm = "registration"

// FormsFS exposes the bundled form documents so callers can copy or extend
// them.
func FormsFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}

// BuiltinForms lists the names accepted by Builtin.
func BuiltinForms() []string {
	names := []string{RegistrationForm}
	entries, _ := fs.ReadDir(FormsFS(), ".")
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// Builtin resolves a bundled schema by name.
func Builtin(name string, opts ...schema.Option) (*schema.Schema, error) {
	if name == RegistrationForm {
		return schema.New(schema.RegistrationModel(), opts...)
	}
	file := name + ".yaml"
	if _, err := fs.Stat(FormsFS(), file); err != nil {
		return nil, fmt.Errorf("formstate: unknown form %q", name)
	}
	return schema.LoadFS(FormsFS(), file, opts...)
}
