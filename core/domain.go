package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusSuccess = "success"
	StatusHalted  = "halted"
)

// RemovalParams are the caller-supplied inputs for one removal invocation.
// Address optionally overrides the environment-configured instance address.
type RemovalParams struct {
	UserKey         string
	PermissionSetID string
	Address         string
}

func (p RemovalParams) Validate() error {
	if strings.TrimSpace(p.UserKey) == "" {
		return fmt.Errorf("core: user key is required")
	}
	if strings.TrimSpace(p.PermissionSetID) == "" {
		return fmt.Errorf("core: permission set id is required")
	}
	return nil
}

// LookupResult carries at most one usable record id plus the raw record count
// the remote service reported. When more than one record matches, ID holds the
// first record in the response's given order; the query imposes a stable sort
// so the pick is deterministic.
type LookupResult struct {
	ID    string
	Total int
}

func (r LookupResult) Empty() bool {
	return strings.TrimSpace(r.ID) == ""
}

// RemovalOutcome is the terminal success record of one invocation.
//
// Removed is false exactly when AssignmentID is nil, which in turn happens
// exactly when the assignment lookup returned zero matches. The three fields
// are never independently inconsistent.
type RemovalOutcome struct {
	Status          string  `json:"status"`
	UserKey         string  `json:"userKey"`
	UserID          string  `json:"userId"`
	PermissionSetID string  `json:"permissionSetId"`
	AssignmentID    *string `json:"assignmentId"`
	Removed         bool    `json:"removed"`
	Address         string  `json:"address"`
}

// HaltRecord is reported when the surrounding execution environment signals a
// halt and the workflow stops between remote calls.
type HaltRecord struct {
	Status   string    `json:"status"`
	UserKey  string    `json:"userKey"`
	Reason   string    `json:"reason"`
	HaltedAt time.Time `json:"haltedAt"`
}

func NewHaltRecord(userKey string, reason string, haltedAt time.Time) HaltRecord {
	key := strings.TrimSpace(userKey)
	if key == "" {
		key = "unknown"
	}
	return HaltRecord{
		Status:   StatusHalted,
		UserKey:  key,
		Reason:   strings.TrimSpace(reason),
		HaltedAt: haltedAt.UTC(),
	}
}
