package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/goliatone/go-formstate/pkg/collectors"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMSTATE_"

// Configuration represents the formstate CLI configuration
type Configuration struct {
	Schema         string `koanf:"schema" validate:"required"`
	Component      string `koanf:"component"`
	Output         string `koanf:"output" validate:"oneof=json pretty form"`
	InactivePolicy string `koanf:"inactive_policy" validate:"oneof=retain clear"`
	TagTrim        bool   `koanf:"tag_trim"`
	TagDedupe      bool   `koanf:"tag_dedupe"`
	StripMarkup    bool   `koanf:"strip_markup"`
	LogLevel       string `koanf:"log_level" validate:"oneof=debug info warn error"`
}

// Defaults returns the baseline configuration values keyed by koanf path.
func Defaults() map[string]any {
	return map[string]any{
		"schema":          "registration",
		"component":       "",
		"output":          "json",
		"inactive_policy": string(visibility.RetainInactive),
		"tag_trim":        false,
		"tag_dedupe":      false,
		"strip_markup":    false,
		"log_level":       "warn",
	}
}

// Load builds the configuration.
// Priority: overrides > environment variables > config file > defaults
func Load(configPath string, overrides map[string]any) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("config: default %s: %w", key, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := k.Load(file.Provider(configPath), json.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("config: override %s: %w", key, err)
		}
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	cfg.InactivePolicy = strings.ToLower(strings.TrimSpace(cfg.InactivePolicy))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: FORMSTATE_LOG_LEVEL -> log_level
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Policy returns the inactive group policy.
func (c *Configuration) Policy() visibility.InactivePolicy {
	policy, err := visibility.ParsePolicy(c.InactivePolicy)
	if err != nil {
		return visibility.RetainInactive
	}
	return policy
}

// TagPolicy returns the tag collector policy.
func (c *Configuration) TagPolicy() collectors.TagPolicy {
	return collectors.TagPolicy{Trim: c.TagTrim, Dedupe: c.TagDedupe}
}

// Level maps LogLevel to a slog level.
func (c *Configuration) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
