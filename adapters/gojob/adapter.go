// Package gojob maps workflow failures onto go-job queue retry decisions.
// The queue worker executing a removal consumes these nack options to either
// requeue with backoff or dead-letter for the operator path.
package gojob

import (
	"strings"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/google/uuid"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
	"github.com/sgnl-actions/salesforce-remove-from-permission-set/retry"
)

const JobIDRemoveAssignment = "salesforce.permission_set_assignment.remove"

// RetryPolicy bounds retry behavior so a failing removal cannot requeue
// forever.
type RetryPolicy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		BaseDelay:       2 * time.Second,
		MaxDelay:        time.Minute,
		DeadLetterOnMax: true,
	}
}

// NackForError turns a workflow error into queue nack options for the given
// 1-based attempt. Retryable failures requeue with capped exponential delay;
// fatal failures and exhausted attempts dead-letter.
func (p RetryPolicy) NackForError(err error, attempt int) queue.NackOptions {
	opts := queue.NackOptions{Reason: reasonFor(err)}

	if retry.Classify(err) == retry.DecisionFatal {
		opts.Disposition = queue.NackDispositionDeadLetter
		return opts
	}

	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		if p.DeadLetterOnMax {
			opts.Disposition = queue.NackDispositionDeadLetter
		} else {
			opts.Disposition = queue.NackDispositionFailed
		}
		return opts
	}

	opts.Disposition = queue.NackDispositionRetry
	opts.Delay = retry.Backoff(attempt, p.BaseDelay, p.MaxDelay)
	return opts
}

// NewExecutionMessage builds the queue message for one removal invocation.
// The idempotency key keeps duplicate deliveries from running the workflow
// twice concurrently; the workflow itself converges under re-runs anyway.
func NewExecutionMessage(params core.RemovalParams) *job.ExecutionMessage {
	return &job.ExecutionMessage{
		JobID: JobIDRemoveAssignment,
		Parameters: map[string]any{
			"user_key":          strings.TrimSpace(params.UserKey),
			"permission_set_id": strings.TrimSpace(params.PermissionSetID),
			"address":           strings.TrimSpace(params.Address),
		},
		IdempotencyKey: uuid.NewString(),
	}
}

// ParamsFromExecutionMessage recovers removal parameters from a queue
// delivery.
func ParamsFromExecutionMessage(msg *job.ExecutionMessage) core.RemovalParams {
	if msg == nil || len(msg.Parameters) == 0 {
		return core.RemovalParams{}
	}
	return core.RemovalParams{
		UserKey:         stringParam(msg.Parameters, "user_key"),
		PermissionSetID: stringParam(msg.Parameters, "permission_set_id"),
		Address:         stringParam(msg.Parameters, "address"),
	}
}

func reasonFor(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

func stringParam(params map[string]any, key string) string {
	value, ok := params[key]
	if !ok || value == nil {
		return ""
	}
	typed, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(typed)
}
