package permissionset

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

// fakeSalesforce serves the three endpoints the workflow touches and records
// the order of calls.
type fakeSalesforce struct {
	t          *testing.T
	assigned   bool
	calls      []string
	userID     string
	assignment string
}

func (f *fakeSalesforce) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/query"):
			f.handleQuery(w, r)
		case r.Method == http.MethodDelete && strings.Contains(r.URL.Path, "/sobjects/PermissionSetAssignment/"):
			f.calls = append(f.calls, "delete")
			if !f.assigned {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			f.assigned = false
			w.WriteHeader(http.StatusNoContent)
		default:
			f.t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
}

func (f *fakeSalesforce) handleQuery(w http.ResponseWriter, r *http.Request) {
	soql := r.URL.Query().Get("q")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.Contains(soql, "FROM User"):
		f.calls = append(f.calls, "user")
		json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 1,
			"records":   []map[string]string{{"Id": f.userID}},
		})
	case strings.Contains(soql, "FROM PermissionSetAssignment"):
		f.calls = append(f.calls, "assignment")
		if !f.assigned {
			json.NewEncoder(w).Encode(map[string]any{"totalSize": 0, "records": []any{}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 1,
			"records":   []map[string]string{{"Id": f.assignment}},
		})
	default:
		f.t.Fatalf("unexpected soql %q", soql)
	}
}

func TestRunRemovesAndConverges(t *testing.T) {
	fake := &fakeSalesforce{
		t:          t,
		assigned:   true,
		userID:     "005000000000001",
		assignment: "0PA000000000001",
	}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	params := RemovalParams{
		UserKey:         "jane.doe@example.com",
		PermissionSetID: "0PS000000000001",
		Address:         server.URL,
	}
	secrets := Secrets{"BEARER_TOKEN": "tok"}

	first, err := Run(context.Background(), params, secrets, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !first.Removed {
		t.Fatalf("first run must remove the assignment")
	}
	if first.AssignmentID == nil || *first.AssignmentID != "0PA000000000001" {
		t.Fatalf("unexpected assignment id %v", first.AssignmentID)
	}
	if got := strings.Join(fake.calls, ","); got != "user,assignment,delete" {
		t.Fatalf("unexpected call sequence %q", got)
	}

	fake.calls = nil
	second, err := Run(context.Background(), params, secrets, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Removed || second.AssignmentID != nil {
		t.Fatalf("second run must converge on absence, got %+v", second)
	}
	if got := strings.Join(fake.calls, ","); got != "user,assignment" {
		t.Fatalf("second run must skip the delete, got %q", got)
	}
}

func TestRunSendsBearerAuthorizationAndUserAgent(t *testing.T) {
	var authz, userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz = r.Header.Get("Authorization")
		userAgent = r.Header.Get("User-Agent")
		io.WriteString(w, `{"totalSize":0,"records":[]}`)
	}))
	defer server.Close()

	params := RemovalParams{
		UserKey:         "nobody@example.com",
		PermissionSetID: "0PS000000000001",
		Address:         server.URL,
	}
	_, err := Run(context.Background(), params, Secrets{"BEARER_TOKEN": "tok"},
		WithHTTPClient(server.Client()),
		WithConfig(core.Config{UserAgent: "custom-agent/2.0"}),
	)
	if err == nil {
		t.Fatalf("unknown user must error")
	}
	if authz != "Bearer tok" {
		t.Fatalf("unexpected authorization %q", authz)
	}
	if userAgent != "custom-agent/2.0" {
		t.Fatalf("runtime config must drive the client identifier, got %q", userAgent)
	}
}

func TestRunFailsFastWithoutAddress(t *testing.T) {
	params := RemovalParams{
		UserKey:         "jane.doe@example.com",
		PermissionSetID: "0PS000000000001",
	}
	_, err := Run(context.Background(), params, Secrets{"BEARER_TOKEN": "tok"})
	if err == nil {
		t.Fatalf("expected missing address error")
	}
	if !strings.Contains(err.Error(), "address") {
		t.Fatalf("unexpected error %v", err)
	}
}
