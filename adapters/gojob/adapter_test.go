package gojob

import (
	"errors"
	"testing"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

func TestNackForErrorFatalDeadLetters(t *testing.T) {
	policy := DefaultRetryPolicy()
	opts := policy.NackForError(core.NewQueryFailedError("user", 401, "401 Unauthorized"), 1)

	if opts.Disposition != queue.NackDispositionDeadLetter {
		t.Fatalf("fatal failures must dead-letter, got %+v", opts)
	}
	if opts.Reason == "" {
		t.Fatalf("nack must carry a reason")
	}
}

func TestNackForErrorRetryableRequeuesWithBackoff(t *testing.T) {
	policy := DefaultRetryPolicy()

	first := policy.NackForError(core.NewQueryFailedError("user", 503, "503 Service Unavailable"), 1)
	if first.Disposition != queue.NackDispositionRetry {
		t.Fatalf("retryable failure must requeue, got %+v", first)
	}
	if first.Delay != 2*time.Second {
		t.Fatalf("unexpected first delay %v", first.Delay)
	}

	third := policy.NackForError(core.NewQueryFailedError("user", 503, "503 Service Unavailable"), 3)
	if third.Delay != 8*time.Second {
		t.Fatalf("delay must grow with attempts, got %v", third.Delay)
	}
}

func TestNackForErrorExhaustedAttemptsDeadLetters(t *testing.T) {
	policy := DefaultRetryPolicy()
	opts := policy.NackForError(errors.New("connection reset"), policy.MaxAttempts)

	if opts.Disposition != queue.NackDispositionDeadLetter {
		t.Fatalf("exhausted attempts must dead-letter under the default policy, got %+v", opts)
	}
}

func TestNackForErrorExhaustedWithoutDeadLetterFlag(t *testing.T) {
	policy := DefaultRetryPolicy()
	policy.DeadLetterOnMax = false

	opts := policy.NackForError(errors.New("connection reset"), policy.MaxAttempts+1)
	if opts.Disposition == queue.NackDispositionRetry || opts.Disposition == queue.NackDispositionDeadLetter {
		t.Fatalf("expected a plain drop, got %+v", opts)
	}
}

func TestExecutionMessageRoundTrip(t *testing.T) {
	params := core.RemovalParams{
		UserKey:         " jane.doe@example.com ",
		PermissionSetID: "0PS000000000001",
		Address:         "https://acme.my.salesforce.com",
	}
	msg := NewExecutionMessage(params)

	if msg.JobID != JobIDRemoveAssignment {
		t.Fatalf("unexpected job id %q", msg.JobID)
	}
	if msg.IdempotencyKey == "" {
		t.Fatalf("expected an idempotency key")
	}

	got := ParamsFromExecutionMessage(msg)
	if got.UserKey != "jane.doe@example.com" {
		t.Fatalf("unexpected user key %q", got.UserKey)
	}
	if got.PermissionSetID != params.PermissionSetID || got.Address != params.Address {
		t.Fatalf("unexpected round trip %+v", got)
	}
}

func TestParamsFromExecutionMessageTolerantOfBadShapes(t *testing.T) {
	if got := ParamsFromExecutionMessage(nil); got != (core.RemovalParams{}) {
		t.Fatalf("nil message must yield zero params, got %+v", got)
	}

	msg := &job.ExecutionMessage{Parameters: map[string]any{
		"user_key":          42,
		"permission_set_id": nil,
	}}
	got := ParamsFromExecutionMessage(msg)
	if got.UserKey != "" || got.PermissionSetID != "" {
		t.Fatalf("non-string parameters must be ignored, got %+v", got)
	}
}
