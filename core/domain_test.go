package core

import (
	"testing"
	"time"
)

func TestRemovalParamsValidate(t *testing.T) {
	params := RemovalParams{UserKey: "user@example.com", PermissionSetID: "0PS000000000001"}
	if err := params.Validate(); err != nil {
		t.Fatalf("expected valid params, got %v", err)
	}

	if err := (RemovalParams{PermissionSetID: "0PS000000000001"}).Validate(); err == nil {
		t.Fatalf("expected missing user key to fail validation")
	}
	if err := (RemovalParams{UserKey: "user@example.com"}).Validate(); err == nil {
		t.Fatalf("expected missing permission set id to fail validation")
	}
	if err := (RemovalParams{UserKey: "  ", PermissionSetID: "x"}).Validate(); err == nil {
		t.Fatalf("expected blank user key to fail validation")
	}
}

func TestLookupResultEmpty(t *testing.T) {
	if !(LookupResult{}).Empty() {
		t.Fatalf("zero lookup result should be empty")
	}
	if (LookupResult{ID: "005000000000001", Total: 1}).Empty() {
		t.Fatalf("populated lookup result should not be empty")
	}
	if !(LookupResult{ID: "  ", Total: 2}).Empty() {
		t.Fatalf("blank id should count as empty even with a nonzero total")
	}
}

func TestNewHaltRecord(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	record := NewHaltRecord("user@example.com", "context canceled", at)
	if record.Status != StatusHalted {
		t.Fatalf("expected halted status, got %q", record.Status)
	}
	if record.UserKey != "user@example.com" {
		t.Fatalf("unexpected user key %q", record.UserKey)
	}
	if !record.HaltedAt.Equal(at) {
		t.Fatalf("unexpected halt time %v", record.HaltedAt)
	}

	anonymous := NewHaltRecord("  ", "halt", at)
	if anonymous.UserKey != "unknown" {
		t.Fatalf("expected unknown user key, got %q", anonymous.UserKey)
	}
}
