package formstate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/collectors"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/submission"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

// unstorable is a collector whose value the tags path cannot hold.
type unstorable struct{}

func (unstorable) Kind() model.CollectorKind { return model.CollectorTags }
func (unstorable) Value() any                { return 42 }

func TestSubmit_MergeFailureRejects(t *testing.T) {
	calls := 0
	sess, err := NewSession(schema.Registration(),
		WithSubmitter(submission.SubmitterFunc(func(context.Context, submission.Payload) error {
			calls++
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := sess.Load(testsupport.RegistrationValues()); err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.collectors["tags"] = unstorable{}

	result := sess.Submit(context.Background())
	if result.Outcome != submission.Rejected || calls != 0 {
		t.Fatalf("expected rejection without delivery, got %s calls=%d", result.Outcome, calls)
	}
	want := ErrorMap{"tags": "Multi add could not be merged"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("error map mismatch (-want +got):\n%s", diff)
	}
	var mergeErr *collectors.MergeError
	if !errors.As(result.SubmitErr, &mergeErr) || mergeErr.Path != "tags" {
		t.Fatalf("expected merge error on tags, got %v", result.SubmitErr)
	}
	if sess.State() != submission.Editing {
		t.Fatalf("session did not return to editing")
	}
}
