package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorNoAddress          = "SFDC_NO_ADDRESS"
	ErrorNoAuth             = "SFDC_NO_AUTH"
	ErrorTokenRequestFailed = "SFDC_TOKEN_REQUEST_FAILED"
	ErrorMissingAccessToken = "SFDC_MISSING_ACCESS_TOKEN"
	ErrorQueryFailed        = "SFDC_QUERY_FAILED"
	ErrorUserNotFound       = "SFDC_USER_NOT_FOUND"
	ErrorDeleteFailed       = "SFDC_DELETE_FAILED"
	ErrorHalted             = "SFDC_HALTED"
	ErrorTransportFailed    = "SFDC_TRANSPORT_FAILED"
	ErrorBadInput           = "SFDC_BAD_INPUT"
	ErrorInternal           = "SFDC_INTERNAL"
)

// NewNoAddressError reports that neither the request nor the environment
// yielded a target address. Raised before any network call.
func NewNoAddressError() error {
	return goerrors.New("salesforce: no instance address configured", goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorNoAddress)
}

// NewNoAuthError reports that no credential bundle was present. Raised before
// any network call.
func NewNoAuthError() error {
	return goerrors.New("salesforce: no authentication credentials configured", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(ErrorNoAuth)
}

// NewTokenRequestError carries the remote status and the response body text of
// a failed client-credentials token request. The status line is embedded in
// the message so failures diagnose from the text alone.
func NewTokenRequestError(status int, statusText string, body string) error {
	message := fmt.Sprintf("salesforce: token request failed: %s", normalizeStatusText(status, statusText))
	err := goerrors.New(message, goerrors.CategoryAuth).
		WithCode(status).
		WithTextCode(ErrorTokenRequestFailed)
	if trimmed := strings.TrimSpace(body); trimmed != "" {
		err.WithMetadata(map[string]any{"response_body": trimmed})
	}
	return err
}

// NewMissingAccessTokenError reports a token endpoint response with no
// access_token field.
func NewMissingAccessTokenError() error {
	return goerrors.New("salesforce: token response has no access token", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(ErrorMissingAccessToken)
}

// NewQueryFailedError carries the remote status of a failed read query.
// Entity names the lookup ("user" or "permission set assignment").
func NewQueryFailedError(entity string, status int, statusText string) error {
	message := fmt.Sprintf("salesforce: %s query failed: %s", strings.TrimSpace(entity), normalizeStatusText(status, statusText))
	return goerrors.New(message, goerrors.CategoryExternal).
		WithCode(status).
		WithTextCode(ErrorQueryFailed).
		WithMetadata(map[string]any{"entity": strings.TrimSpace(entity)})
}

// NewUserNotFoundError reports a user lookup with zero matching records.
// Fatal for the invocation; the workflow never guesses at identities.
func NewUserNotFoundError(userKey string) error {
	return goerrors.New(fmt.Sprintf("salesforce: no user found for %q", strings.TrimSpace(userKey)), goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(ErrorUserNotFound).
		WithMetadata(map[string]any{"user_key": strings.TrimSpace(userKey)})
}

// NewDeleteFailedError carries the remote status of a failed assignment delete.
func NewDeleteFailedError(assignmentID string, status int, statusText string) error {
	message := fmt.Sprintf("salesforce: assignment delete failed: %s", normalizeStatusText(status, statusText))
	return goerrors.New(message, goerrors.CategoryExternal).
		WithCode(status).
		WithTextCode(ErrorDeleteFailed).
		WithMetadata(map[string]any{"assignment_id": strings.TrimSpace(assignmentID)})
}

// NewHaltedError reports that the workflow observed a cancellation signal and
// stopped before the named step. The in-flight state is not an error in the
// remote system; no further calls were made.
func NewHaltedError(step string, cause error) error {
	message := fmt.Sprintf("salesforce: removal halted before %s", strings.TrimSpace(step))
	err := goerrors.Wrap(cause, goerrors.CategoryOperation, message).
		WithTextCode(ErrorHalted).
		WithMetadata(map[string]any{"step": strings.TrimSpace(step)})
	return err
}

// IsHalted reports whether err is a halt raised by NewHaltedError.
func IsHalted(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == ErrorHalted
}

// StatusOf extracts the remote HTTP status a rich error carries, or 0.
func StatusOf(err error) int {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return 0
	}
	return rich.Code
}

func normalizeStatusText(status int, statusText string) string {
	text := strings.TrimSpace(statusText)
	if text == "" {
		text = http.StatusText(status)
	}
	if strings.HasPrefix(text, fmt.Sprintf("%d", status)) {
		return text
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", status, text))
}
