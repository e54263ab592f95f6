// Package salesforce maps the removal workflow onto the Salesforce REST API:
// SOQL lookups through the query endpoint and the sobjects delete endpoint.
package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

const DefaultAPIVersion = "v58.0"

// Client issues the three remote operations of the workflow against one
// Salesforce instance. It holds no per-invocation state; base address and
// headers travel with each call.
type Client struct {
	transport  core.TransportAdapter
	apiVersion string
}

func NewClient(transport core.TransportAdapter, apiVersion string) *Client {
	version := strings.TrimSpace(apiVersion)
	if version == "" {
		version = DefaultAPIVersion
	}
	return &Client{
		transport:  transport,
		apiVersion: version,
	}
}

type queryRecord struct {
	ID string `json:"Id"`
}

type queryResponse struct {
	TotalSize int           `json:"totalSize"`
	Records   []queryRecord `json:"records"`
}

// FindUserID maps a username to its internal id. The key is percent-encoded
// before interpolation into the SOQL literal so special characters cannot
// break out of the quoted term. Zero matches is a valid result; multi-match
// picks the first record under the ascending id ordering the query imposes.
func (c *Client) FindUserID(ctx context.Context, baseURL string, headers map[string]string, userKey string) (core.LookupResult, error) {
	soql := fmt.Sprintf(
		"SELECT Id FROM User WHERE Username = '%s' ORDER BY Id ASC",
		url.PathEscape(strings.TrimSpace(userKey)),
	)
	return c.query(ctx, baseURL, headers, soql, "user")
}

// FindAssignment looks up the permission set assignment linking the resolved
// user to the caller-supplied permission set.
func (c *Client) FindAssignment(ctx context.Context, baseURL string, headers map[string]string, userID string, permissionSetID string) (core.LookupResult, error) {
	soql := fmt.Sprintf(
		"SELECT Id FROM PermissionSetAssignment WHERE AssigneeId = '%s' AND PermissionSetId = '%s' ORDER BY Id ASC",
		url.PathEscape(strings.TrimSpace(userID)),
		url.PathEscape(strings.TrimSpace(permissionSetID)),
	)
	return c.query(ctx, baseURL, headers, soql, "permission set assignment")
}

// DeleteAssignment removes an assignment record by id. Success carries no
// payload.
func (c *Client) DeleteAssignment(ctx context.Context, baseURL string, headers map[string]string, assignmentID string) error {
	if c == nil || c.transport == nil {
		return clientDependencyError()
	}
	id := strings.TrimSpace(assignmentID)
	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method:  http.MethodDelete,
		URL:     fmt.Sprintf("%s/services/data/%s/sobjects/PermissionSetAssignment/%s", baseURL, c.apiVersion, url.PathEscape(id)),
		Headers: cloneHeaders(headers),
	})
	if err != nil {
		return err
	}
	if !res.Success() {
		return core.NewDeleteFailedError(id, res.StatusCode, res.StatusText())
	}
	return nil
}

func (c *Client) query(ctx context.Context, baseURL string, headers map[string]string, soql string, entity string) (core.LookupResult, error) {
	if c == nil || c.transport == nil {
		return core.LookupResult{}, clientDependencyError()
	}
	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/services/data/%s/query", baseURL, c.apiVersion),
		Query:   map[string]string{"q": soql},
		Headers: cloneHeaders(headers),
	})
	if err != nil {
		return core.LookupResult{}, err
	}
	if !res.Success() {
		return core.LookupResult{}, core.NewQueryFailedError(entity, res.StatusCode, res.StatusText())
	}

	var parsed queryResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return core.LookupResult{}, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("salesforce: decode %s query response", entity)).
			WithTextCode(core.ErrorQueryFailed)
	}

	result := core.LookupResult{Total: parsed.TotalSize}
	if result.Total == 0 {
		result.Total = len(parsed.Records)
	}
	if len(parsed.Records) > 0 {
		result.ID = strings.TrimSpace(parsed.Records[0].ID)
	}
	return result, nil
}

func clientDependencyError() error {
	return goerrors.New("salesforce: client requires a transport adapter", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ErrorInternal)
}

func cloneHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(headers))
	for key, value := range headers {
		out[key] = value
	}
	return out
}
