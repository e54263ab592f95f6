package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Secrets is the bag of named secret and environment values handed to one
// invocation. Presence of keys determines which authentication scheme is
// active; the bag is discarded once the outcome is returned.
type Secrets map[string]string

// Get returns the trimmed value for key, or "" when absent.
func (s Secrets) Get(key string) string {
	if len(s) == 0 {
		return ""
	}
	return strings.TrimSpace(s[key])
}

// Has reports whether key carries a non-empty value.
func (s Secrets) Has(key string) bool {
	return s.Get(key) != ""
}

type TransportRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   map[string]string
	Body    []byte
	Timeout time.Duration
}

type TransportResponse struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
}

// Success reports whether the status code is in the 2xx range.
func (r TransportResponse) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// StatusText returns the status line as the remote reported it, rebuilding
// one from the code when the transport did not capture it.
func (r TransportResponse) StatusText() string {
	text := strings.TrimSpace(r.Status)
	if text != "" {
		return text
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode)))
}

// TransportAdapter is the outbound call capability the workflow consumes. The
// workflow never constructs http.Requests itself; URL construction, header
// application, and body handling all happen behind this contract.
type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
