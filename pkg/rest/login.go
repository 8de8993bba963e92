package rest

import (
	"context"
	"net/http"

	"github.com/agentstation/dremio/internal/transport"
	"github.com/agentstation/dremio/pkg/constants"
	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/logging"
)

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	UserName  string `json:"userName"`
	Expires   int64  `json:"expires"`
	SessionID string `json:"sessionId"`
}

// Login exchanges a username and password for a session token and installs
// it on t.
func Login(ctx context.Context, t *transport.Client, username, password string) (string, error) {
	if username == "" {
		return "", errors.NewValidationError("username", username, "required")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.LoginTimeout)
	defer cancel()

	var resp loginResponse
	err := t.Do(ctx, http.MethodPost, constants.LoginPath, nil, loginRequest{UserName: username, Password: password}, &resp)
	if err != nil {
		return "", &errors.AuthenticationError{Method: "basic", Message: "login failed for " + username, Err: err}
	}
	if resp.Token == "" {
		return "", &errors.AuthenticationError{Method: "basic", Message: "login response carried no token"}
	}

	t.SetToken(resp.Token)
	logging.FromContext(ctx).Debug().Str("user", username).Msg("logged in")
	return resp.Token, nil
}
