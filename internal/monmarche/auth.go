package monmarche

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/monmarche/monmarche-cli/internal/common/httpclient"
	"github.com/monmarche/monmarche-cli/internal/common/logtrace"
)

// Login exchanges the credentials for a session. The gateway persists the
// issued token; only success or failure is reported back.
func (c *Client) Login(ctx context.Context, creds Credentials) (Status, error) {
	ctx = logtrace.StartOperation(ctx, "login")
	logger := logtrace.Logger(ctx)

	creds.Email = strings.TrimSpace(creds.Email)
	if err := V().Struct(creds); err != nil {
		return Status{}, ErrMissingCredentials
	}

	body, err := sjson.SetBytes([]byte(`{}`), "email", creds.Email)
	if err == nil {
		body, err = sjson.SetBytes(body, "password", creds.Password)
	}
	if err != nil {
		return Status{}, remoteFailure("login failed", err)
	}

	resp, err := c.gateway.DoRequest(ctx, httpclient.RequestOptions{
		Method:  http.MethodPost,
		Path:    pathSignIn,
		Body:    body,
		IsLogin: true,
	})
	if err != nil {
		logger.Error().Err(err).Msg("login call failed")
		return Status{}, remoteFailure("login failed", err)
	}

	if httpclient.HasApplicationError(resp.Body) {
		appErr := &ApplicationError{
			Reason:  gjson.GetBytes(resp.Body, "error").String(),
			Message: gjson.GetBytes(resp.Body, "message").String(),
		}
		logger.Warn().Str("reason", appErr.Reason).Msg("login rejected")
		return Status{}, ErrApplication.MsgErr("login rejected", appErr)
	}
	if !httpclient.LoginAccepted(resp.Body) {
		return Status{}, remoteFailure("login failed", httpclient.ErrDecode)
	}
	if !resp.SessionIssued {
		logger.Warn().Msg("login response carried no session token")
		return Status{}, ErrApplication.MsgErr("login rejected", &ApplicationError{
			Reason:  "no session issued",
			Message: "the backend accepted the request but returned no session token",
		})
	}

	logger.Info().Msg("logged in")
	return Status{Status: "ok"}, nil
}
