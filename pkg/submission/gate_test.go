package submission_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/submission"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

type transition struct {
	From, To submission.State
}

func recorder(out *[]transition) submission.Option {
	return submission.WithObserver(func(from, to submission.State) {
		*out = append(*out, transition{from, to})
	})
}

func TestAttempt_RejectedNeverSubmits(t *testing.T) {
	var seen []transition
	calls := 0
	gate := submission.New(
		recorder(&seen),
		submission.WithSubmitter(submission.SubmitterFunc(func(context.Context, submission.Payload) error {
			calls++
			return nil
		})),
	)

	errs := validation.ErrorMap{"name": "Name must be at least 2 characters"}
	result := gate.Attempt(context.Background(), errs, func() submission.Payload {
		t.Fatalf("compose must not run on rejection")
		return nil
	})

	if result.Outcome != submission.Rejected {
		t.Fatalf("expected rejected, got %s", result.Outcome)
	}
	if calls != 0 {
		t.Fatalf("submitter called %d times", calls)
	}
	if diff := cmp.Diff(errs, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	want := []transition{
		{submission.Editing, submission.Validating},
		{submission.Validating, submission.Rejected},
		{submission.Rejected, submission.Editing},
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
	if gate.State() != submission.Editing {
		t.Fatalf("gate did not return to editing")
	}
}

func TestAttempt_AcceptedSubmitsOnce(t *testing.T) {
	var seen []transition
	var got []submission.Payload
	gate := submission.New(
		recorder(&seen),
		submission.WithSubmitter(submission.SubmitterFunc(func(_ context.Context, p submission.Payload) error {
			got = append(got, p)
			return nil
		})),
	)

	result := gate.Attempt(context.Background(), validation.ErrorMap{}, func() submission.Payload {
		return submission.Payload{"name": "Ada"}
	})

	if result.Outcome != submission.Accepted || result.SubmitErr != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	if diff := cmp.Diff([]submission.Payload{{"name": "Ada"}}, got); diff != "" {
		t.Fatalf("payloads mismatch (-want +got):\n%s", diff)
	}
	want := []transition{
		{submission.Editing, submission.Validating},
		{submission.Validating, submission.Accepted},
		{submission.Accepted, submission.Editing},
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestAttempt_SubmitterErrorKeepsAccepted(t *testing.T) {
	boom := errors.New("boom")
	gate := submission.New(submission.WithSubmitter(submission.SubmitterFunc(func(context.Context, submission.Payload) error {
		return boom
	})))

	result := gate.Attempt(context.Background(), nil, func() submission.Payload { return submission.Payload{} })
	if result.Outcome != submission.Accepted {
		t.Fatalf("expected accepted, got %s", result.Outcome)
	}
	if !errors.Is(result.SubmitErr, boom) {
		t.Fatalf("expected submit error to wrap boom, got %v", result.SubmitErr)
	}
	if gate.State() != submission.Editing {
		t.Fatalf("gate did not return to editing")
	}
}

func TestAttempt_TransformersRunInOrder(t *testing.T) {
	var delivered submission.Payload
	gate := submission.New(
		submission.WithTransformers(submission.TrimSpace(), submission.StripMarkup()),
		submission.WithSubmitter(submission.SubmitterFunc(func(_ context.Context, p submission.Payload) error {
			delivered = p
			return nil
		})),
	)

	gate.Attempt(context.Background(), nil, func() submission.Payload {
		return submission.Payload{
			"name":        "  <b>Ada</b> ",
			"experiences": []any{map[string]any{"company": "<i>ACME</i> & Co", "years": "3"}},
			"remote":      true,
		}
	})

	want := submission.Payload{
		"name":        "Ada",
		"experiences": []any{map[string]any{"company": "ACME & Co", "years": "3"}},
		"remote":      true,
	}
	if diff := cmp.Diff(want, delivered); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestAttempt_TransformerError(t *testing.T) {
	calls := 0
	gate := submission.New(
		submission.WithTransformers(func(map[string]any) (map[string]any, error) {
			return nil, errors.New("nope")
		}),
		submission.WithSubmitter(submission.SubmitterFunc(func(context.Context, submission.Payload) error {
			calls++
			return nil
		})),
	)

	result := gate.Attempt(context.Background(), nil, nil)
	if result.SubmitErr == nil || calls != 0 {
		t.Fatalf("expected transform failure without delivery, got %+v calls=%d", result, calls)
	}
	if result.Outcome != submission.Accepted {
		t.Fatalf("expected accepted, got %s", result.Outcome)
	}
}

func TestCompose_ExcludesInactiveGroups(t *testing.T) {
	s := schema.Registration()
	store := state.New(s)
	mustSet(t, store, "category", "job")
	mustSet(t, store, "salary", "5000")
	mustSet(t, store, "severity", "high")

	snap := store.Snapshot()
	payload := submission.Compose(s, snap, visibility.Resolve(s, snap))

	if payload["salary"] != "5000" {
		t.Fatalf("expected active salary in payload, got %v", payload["salary"])
	}
	for _, name := range s.GroupFields(schema.GroupFeedback) {
		if _, ok := payload[name]; ok {
			t.Fatalf("inactive field %s leaked into payload", name)
		}
	}
	if _, ok := payload["name"]; !ok {
		t.Fatalf("ungrouped field missing from payload")
	}
}

func TestJSONSubmitter(t *testing.T) {
	var buf bytes.Buffer
	sub := submission.JSONSubmitter{W: &buf}
	if err := sub.Submit(context.Background(), submission.Payload{"name": "Ada", "agree": true}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada", "agree": true}, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	if err := (submission.JSONSubmitter{}).Submit(context.Background(), nil); err == nil {
		t.Fatalf("expected error without writer")
	}
}

func mustSet(t *testing.T, store *state.Store, path string, value any) {
	t.Helper()
	if err := store.Set(path, value); err != nil {
		t.Fatalf("set %s: %v", path, err)
	}
}
