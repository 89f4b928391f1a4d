package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
)

// PrettySubmitter writes one key=value line per leaf of the payload, sorted by
// key. Record and list items use name[i] paths.
type PrettySubmitter struct {
	W io.Writer
}

// Submit writes payload to W.
func (p PrettySubmitter) Submit(ctx context.Context, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.W == nil {
		return errors.New("submission: pretty submitter has no writer")
	}
	var b strings.Builder
	writePretty(&b, "", map[string]any(payload))
	_, err := io.WriteString(p.W, b.String())
	return err
}

// FormSubmitter writes the payload as application/x-www-form-urlencoded.
type FormSubmitter struct {
	W io.Writer
}

// Submit writes payload to W.
func (f FormSubmitter) Submit(ctx context.Context, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.W == nil {
		return errors.New("submission: form submitter has no writer")
	}
	values := url.Values{}
	flatten("", map[string]any(payload), values)
	_, err := io.WriteString(f.W, values.Encode()+"\n")
	return err
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(join(prefix, key), val, out)
		}
	case []any:
		for idx, val := range v {
			if _, nested := val.(map[string]any); nested {
				flatten(fmt.Sprintf("%s[%d]", prefix, idx), val, out)
				continue
			}
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			writePretty(b, join(prefix, key), v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	case nil:
		if prefix != "" {
			fmt.Fprintf(b, "%s=\n", prefix)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
