// Package command exposes the removal workflow as go-command handlers.
// Results land in the go-command result collector; a cancellation observed
// mid-workflow additionally stores a halt record for the operator surface.
package command

import (
	"context"
	"time"

	gocmd "github.com/goliatone/go-command"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

// RemovalService is the orchestrator contract the handler drives.
type RemovalService interface {
	Remove(ctx context.Context, params core.RemovalParams, secrets core.Secrets) (core.RemovalOutcome, error)
}

type RemoveAssignmentCommand struct {
	service RemovalService
	now     func() time.Time
}

func NewRemoveAssignmentCommand(service RemovalService) *RemoveAssignmentCommand {
	return &RemoveAssignmentCommand{
		service: service,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (c *RemoveAssignmentCommand) Execute(ctx context.Context, msg RemoveAssignmentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: removal service is required")
	}
	out, err := c.service.Remove(ctx, msg.Params, msg.Secrets)
	if err != nil {
		if core.IsHalted(err) {
			storeResult(ctx, core.NewHaltRecord(msg.Params.UserKey, err.Error(), c.now()))
		}
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
