package submission

import (
	"context"
	"errors"
	"io"

	"github.com/goccy/go-json"
)

// JSONSubmitter writes each accepted payload to W as indented JSON.
type JSONSubmitter struct {
	W      io.Writer
	Indent string
}

// Submit encodes payload to W.
func (j JSONSubmitter) Submit(ctx context.Context, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j.W == nil {
		return errors.New("submission: json submitter has no writer")
	}
	enc := json.NewEncoder(j.W)
	indent := j.Indent
	if indent == "" {
		indent = "  "
	}
	enc.SetIndent("", indent)
	return enc.Encode(map[string]any(payload))
}
