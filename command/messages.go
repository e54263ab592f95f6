package command

import (
	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

const TypeRemoveAssignment = "salesforce.command.permission_set_assignment.remove"

// RemoveAssignmentMessage carries one invocation's parameters and secret bag.
type RemoveAssignmentMessage struct {
	Params  core.RemovalParams
	Secrets core.Secrets
}

func (RemoveAssignmentMessage) Type() string { return TypeRemoveAssignment }

func (m RemoveAssignmentMessage) Validate() error {
	if err := m.Params.Validate(); err != nil {
		return commandWrapValidation(err, "command: invalid removal parameters")
	}
	return nil
}
