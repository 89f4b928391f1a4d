package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/collectors"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "registration", cfg.Schema)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, visibility.RetainInactive, cfg.Policy())
	assert.Equal(t, collectors.TagPolicy{}, cfg.TagPolicy())
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoad_FileOverride(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "formstate.json")
	content := `{
		"schema": "support",
		"inactive_policy": "clear",
		"tag_trim": true,
		"tag_dedupe": true
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "support", cfg.Schema)
	assert.Equal(t, visibility.ClearInactive, cfg.Policy())
	assert.Equal(t, collectors.TagPolicy{Trim: true, Dedupe: true}, cfg.TagPolicy())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FORMSTATE_OUTPUT", "pretty")
	t.Setenv("FORMSTATE_LOG_LEVEL", "debug")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "pretty", cfg.Output)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_OverridesWinOverEnv(t *testing.T) {
	t.Setenv("FORMSTATE_OUTPUT", "pretty")

	cfg, err := Load("", map[string]any{"output": "form", "strip_markup": true})
	require.NoError(t, err)
	assert.Equal(t, "form", cfg.Output)
	assert.True(t, cfg.StripMarkup)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := map[string]map[string]any{
		"unknown output": {"output": "xml"},
		"unknown policy": {"inactive_policy": "forget"},
		"unknown level":  {"log_level": "trace"},
		"empty schema":   {"schema": ""},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load("", overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), nil)
	require.Error(t, err)
}
