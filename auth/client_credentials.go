package auth

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

// AuthStyle selects where the client credentials travel on the token request.
type AuthStyle string

const (
	// AuthStyleInHeader sends client_id/client_secret as request basic auth.
	// This is the default when OAUTH_AUTH_STYLE is absent.
	AuthStyleInHeader AuthStyle = "in_header"
	// AuthStyleInParams embeds client_id/client_secret in the form body.
	AuthStyleInParams AuthStyle = "in_params"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// fetchClientCredentialsToken performs the one network call of the credential
// resolver: a form-encoded grant_type=client_credentials POST against the
// configured token endpoint.
func (r *Resolver) fetchClientCredentialsToken(ctx context.Context, secrets core.Secrets) (string, error) {
	if r == nil || r.transport == nil {
		return "", goerrors.New("auth: token requests require a transport adapter", goerrors.CategoryInternal).
			WithTextCode(core.ErrorInternal)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if scope := secrets.Get(SecretScope); scope != "" {
		form.Set("scope", scope)
	}
	if audience := secrets.Get(SecretAudience); audience != "" {
		form.Set("audience", audience)
	}

	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "application/json",
	}
	clientID := secrets.Get(SecretClientID)
	clientSecret := secrets.Get(SecretClientSecret)
	switch resolveAuthStyle(secrets.Get(SecretAuthStyle)) {
	case AuthStyleInParams:
		form.Set("client_id", clientID)
		form.Set("client_secret", clientSecret)
	default:
		headers["Authorization"] = basicHeader(clientID, clientSecret)
	}

	res, err := r.transport.Do(ctx, core.TransportRequest{
		Method:  "POST",
		URL:     secrets.Get(SecretTokenURL),
		Headers: headers,
		Body:    []byte(form.Encode()),
	})
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", core.NewTokenRequestError(res.StatusCode, res.StatusText(), string(res.Body))
	}

	var token tokenResponse
	if err := json.Unmarshal(res.Body, &token); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, "auth: decode token response").
			WithTextCode(core.ErrorTokenRequestFailed)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return "", core.NewMissingAccessTokenError()
	}
	return strings.TrimSpace(token.AccessToken), nil
}

func resolveAuthStyle(raw string) AuthStyle {
	switch AuthStyle(strings.ToLower(strings.TrimSpace(raw))) {
	case AuthStyleInParams:
		return AuthStyleInParams
	default:
		// Unrecognized styles fall back to header credentials.
		return AuthStyleInHeader
	}
}
