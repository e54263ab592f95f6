package gojob

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/adapters/gologger"
	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

// RemovalService is the workflow contract the runner drives for each queue
// delivery.
type RemovalService interface {
	Remove(ctx context.Context, params core.RemovalParams, secrets core.Secrets) (core.RemovalOutcome, error)
}

// SecretsSource supplies the credential bag at execution time. Queue messages
// never carry secrets; they are resolved on the worker side.
type SecretsSource func(ctx context.Context) (core.Secrets, error)

// StaticSecrets adapts a fixed bag to the SecretsSource contract.
func StaticSecrets(secrets core.Secrets) SecretsSource {
	return func(context.Context) (core.Secrets, error) {
		return secrets, nil
	}
}

// Runner executes removal deliveries dequeued from a go-job queue. Success
// acks the delivery; failure nacks it with the retry policy's decision for
// the current attempt.
type Runner struct {
	service RemovalService
	secrets SecretsSource
	policy  RetryPolicy
	logger  job.Logger
}

type RunnerOption func(*Runner)

func WithRetryPolicy(policy RetryPolicy) RunnerOption {
	return func(r *Runner) {
		r.policy = policy
	}
}

func WithJobLogger(logger job.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithGLogger bridges a glog logger onto the runner so queue-side log lines
// land in the same sink as the removal service's.
func WithGLogger(logger glog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = gologger.ToJobLogger(logger)
	}
}

func NewRunner(service RemovalService, secrets SecretsSource, opts ...RunnerOption) *Runner {
	runner := &Runner{
		service: service,
		secrets: secrets,
		policy:  DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(runner)
	}
	return runner
}

// Handle processes one delivery for the given 1-based attempt. The returned
// error reflects the workflow result; ack and nack failures take precedence
// because a lost acknowledgement redelivers the message regardless.
func (r *Runner) Handle(ctx context.Context, delivery queue.Delivery, attempt int) error {
	if r == nil || r.service == nil || r.secrets == nil {
		return runnerDependencyError()
	}
	if delivery == nil {
		return runnerDependencyError()
	}

	msg := delivery.Message()
	if msg == nil || msg.JobID != JobIDRemoveAssignment {
		return delivery.Nack(ctx, queue.NackOptions{
			Disposition: queue.NackDispositionDeadLetter,
			Reason:      "unrecognized removal delivery",
		})
	}

	secrets, err := r.secrets(ctx)
	if err != nil {
		return delivery.Nack(ctx, r.policy.NackForError(err, attempt))
	}

	params := ParamsFromExecutionMessage(msg)
	outcome, err := r.service.Remove(ctx, params, secrets)
	if err != nil {
		r.logInfo("removal delivery failed",
			"job_id", msg.JobID,
			"attempt", attempt,
			"error", err.Error(),
		)
		if nackErr := delivery.Nack(ctx, r.policy.NackForError(err, attempt)); nackErr != nil {
			return nackErr
		}
		return err
	}

	r.logInfo("removal delivery processed",
		"job_id", msg.JobID,
		"user_key", outcome.UserKey,
		"removed", outcome.Removed,
	)
	return delivery.Ack(ctx)
}

func runnerDependencyError() error {
	return goerrors.New("gojob: runner requires a service, a secrets source, and a delivery", goerrors.CategoryInternal).
		WithTextCode(core.ErrorInternal)
}

func (r *Runner) logInfo(msg string, args ...any) {
	if r == nil || r.logger == nil {
		return
	}
	r.logger.Info(msg, args...)
}
