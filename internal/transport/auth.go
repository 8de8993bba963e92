package transport

import (
	"net/http"

	"github.com/agentstation/dremio/pkg/constants"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// SessionAuth sends a login session token the way the coordinator expects:
// the token prefixed with "_dremio" and no space.
type SessionAuth struct{}

// Apply implements the Authenticator interface for SessionAuth.
func (a *SessionAuth) Apply(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", constants.TokenPrefix+token)
}

// BearerAuth sends a personal access token.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// AuthenticatorFor returns the authenticator for an auth type name.
// "pat" uses bearer tokens, "none" sends nothing and everything else
// ("basic", "token") sends a session token.
func AuthenticatorFor(authType string) Authenticator {
	switch authType {
	case "pat":
		return &BearerAuth{}
	case "none":
		return &NoAuth{}
	default:
		return &SessionAuth{}
	}
}
