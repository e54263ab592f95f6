package auth

import (
	"context"
	"encoding/base64"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

type fakeTransport struct {
	calls    []core.TransportRequest
	response core.TransportResponse
	err      error
}

func (f *fakeTransport) Kind() string { return "fake" }

func (f *fakeTransport) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return core.TransportResponse{}, f.err
	}
	return f.response, nil
}

func TestResolveBearerToken(t *testing.T) {
	transport := &fakeTransport{}
	resolver := NewResolver(transport)

	header, err := resolver.Resolve(context.Background(), core.Secrets{SecretBearerToken: "abc123"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if header != "Bearer abc123" {
		t.Fatalf("expected prefixed bearer header, got %q", header)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("bearer resolution must not touch the network, saw %d calls", len(transport.calls))
	}
}

func TestResolveBearerPrefixIsIdempotent(t *testing.T) {
	resolver := NewResolver(&fakeTransport{})
	header, err := resolver.Resolve(context.Background(), core.Secrets{SecretBearerToken: "Bearer already"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if header != "Bearer already" {
		t.Fatalf("expected token kept as-is, got %q", header)
	}
}

func TestResolveBearerWinsOverBasic(t *testing.T) {
	resolver := NewResolver(&fakeTransport{})
	header, err := resolver.Resolve(context.Background(), core.Secrets{
		SecretBearerToken:   "tok",
		SecretBasicUsername: "svc",
		SecretBasicPassword: "pw",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if header != "Bearer tok" {
		t.Fatalf("bearer must win precedence, got %q", header)
	}
}

func TestResolveBasic(t *testing.T) {
	resolver := NewResolver(&fakeTransport{})
	header, err := resolver.Resolve(context.Background(), core.Secrets{
		SecretBasicUsername: "svc",
		SecretBasicPassword: "pw",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("svc:pw"))
	if header != expected {
		t.Fatalf("expected %q, got %q", expected, header)
	}
}

func TestResolveBasicRequiresBothValues(t *testing.T) {
	resolver := NewResolver(&fakeTransport{})
	_, err := resolver.Resolve(context.Background(), core.Secrets{SecretBasicUsername: "svc"})
	if err == nil {
		t.Fatalf("expected resolution to fail with only a username")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != core.ErrorNoAuth {
		t.Fatalf("expected no-auth error, got %v", err)
	}
}

func TestResolveAuthorizationCodeToken(t *testing.T) {
	resolver := NewResolver(&fakeTransport{})
	header, err := resolver.Resolve(context.Background(), core.Secrets{SecretAccessToken: "code-token"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if header != "Bearer code-token" {
		t.Fatalf("expected bearer-wrapped access token, got %q", header)
	}
}

func TestResolveNoAuthConfigured(t *testing.T) {
	transport := &fakeTransport{}
	resolver := NewResolver(transport)
	_, err := resolver.Resolve(context.Background(), core.Secrets{})
	if err == nil {
		t.Fatalf("expected no-auth error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != core.ErrorNoAuth {
		t.Fatalf("expected no-auth error, got %v", err)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("no-auth failure must precede any network call")
	}
}
