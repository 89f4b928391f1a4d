package submission

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Transformer rewrites the payload before delivery.
type Transformer func(map[string]any) (map[string]any, error)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

func markupStripper() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// StripMarkup removes HTML tags from every string leaf of the payload. The
// result is plain text; entities are decoded.
func StripMarkup() Transformer {
	return func(values map[string]any) (map[string]any, error) {
		out, _ := stripValue(values).(map[string]any)
		return out, nil
	}
}

// TrimSpace trims surrounding whitespace from every string leaf.
func TrimSpace() Transformer {
	return func(values map[string]any) (map[string]any, error) {
		out, _ := mapStrings(values, strings.TrimSpace).(map[string]any)
		return out, nil
	}
}

func stripValue(value any) any {
	policy := markupStripper()
	return mapStrings(value, func(text string) string {
		if !strings.Contains(text, "<") {
			return text
		}
		return html.UnescapeString(policy.Sanitize(text))
	})
}

func mapStrings(value any, fn func(string) string) any {
	switch v := value.(type) {
	case string:
		return fn(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = mapStrings(item, fn)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = mapStrings(item, fn)
		}
		return out
	default:
		return value
	}
}
