// Package auth resolves one invocation's secret bag into a ready-to-use
// Authorization header value. Exactly one scheme wins, selected by a fixed
// precedence order over which secrets are present.
package auth

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

// Secret bag keys, one bundle per authentication scheme.
const (
	SecretBearerToken = "BEARER_TOKEN"

	SecretBasicUsername = "BASIC_USERNAME"
	SecretBasicPassword = "BASIC_PASSWORD"

	// Access token previously obtained through an authorization-code flow.
	SecretAccessToken = "ACCESS_TOKEN"

	SecretTokenURL     = "OAUTH_TOKEN_URL"
	SecretClientID     = "OAUTH_CLIENT_ID"
	SecretClientSecret = "OAUTH_CLIENT_SECRET"
	SecretScope        = "OAUTH_SCOPE"
	SecretAudience     = "OAUTH_AUDIENCE"
	SecretAuthStyle    = "OAUTH_AUTH_STYLE"
)

const bearerPrefix = "Bearer "

// Resolver normalizes a secret bag into a single Authorization header value.
// Only the client-credentials scheme touches the network; it issues one POST
// to the configured token endpoint through the transport adapter.
type Resolver struct {
	transport core.TransportAdapter
}

func NewResolver(transport core.TransportAdapter) *Resolver {
	return &Resolver{transport: transport}
}

// Resolve checks the schemes in precedence order - bearer, basic,
// authorization code, client credentials - and returns the header value of the
// first scheme whose required secrets are all present. A partially configured
// lower-precedence bundle is ignored, even if malformed. No bundle at all
// fails with the no-auth error before any network call.
func (r *Resolver) Resolve(ctx context.Context, secrets core.Secrets) (string, error) {
	if token := secrets.Get(SecretBearerToken); token != "" {
		return ensureBearer(token), nil
	}

	username := secrets.Get(SecretBasicUsername)
	password := secrets.Get(SecretBasicPassword)
	if username != "" && password != "" {
		return basicHeader(username, password), nil
	}

	if token := secrets.Get(SecretAccessToken); token != "" {
		return ensureBearer(token), nil
	}

	if secrets.Has(SecretTokenURL) && secrets.Has(SecretClientID) && secrets.Has(SecretClientSecret) {
		token, err := r.fetchClientCredentialsToken(ctx, secrets)
		if err != nil {
			return "", err
		}
		return ensureBearer(token), nil
	}

	return "", core.NewNoAuthError()
}

// ensureBearer prepends the scheme prefix unless the stored token already
// carries it. Idempotent.
func ensureBearer(token string) string {
	if strings.HasPrefix(strings.ToLower(token), strings.ToLower(bearerPrefix)) {
		return token
	}
	return bearerPrefix + token
}

func basicHeader(username string, password string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return "Basic " + encoded
}
