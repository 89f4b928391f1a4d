package submission_test

import (
	"bytes"
	"context"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/submission"
)

var textPayload = submission.Payload{
	"name":        "Ada",
	"agree":       true,
	"tags":        []any{"go", "maths"},
	"dateRange":   map[string]any{"from": "2026-01-02", "to": nil},
	"experiences": []any{map[string]any{"company": "ACME", "years": "3"}},
}

func TestPrettySubmitter(t *testing.T) {
	var buf bytes.Buffer
	if err := (submission.PrettySubmitter{W: &buf}).Submit(context.Background(), textPayload); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := "agree=true\n" +
		"dateRange.from=2026-01-02\n" +
		"dateRange.to=\n" +
		"experiences[0].company=ACME\n" +
		"experiences[0].years=3\n" +
		"name=Ada\n" +
		"tags[0]=go\n" +
		"tags[1]=maths\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormSubmitter(t *testing.T) {
	var buf bytes.Buffer
	if err := (submission.FormSubmitter{W: &buf}).Submit(context.Background(), textPayload); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := url.ParseQuery(string(bytes.TrimSpace(buf.Bytes())))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := url.Values{
		"name":                   {"Ada"},
		"agree":                  {"true"},
		"tags[]":                 {"go", "maths"},
		"dateRange.from":         {"2026-01-02"},
		"dateRange.to":           {""},
		"experiences[0].company": {"ACME"},
		"experiences[0].years":   {"3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form values mismatch (-want +got):\n%s", diff)
	}
}
