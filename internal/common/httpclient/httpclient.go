// Package httpclient is the single outbound gateway to the grocery backend.
// Every call is one HTTP exchange: authenticated calls carry the persisted
// session cookie, login calls carry none and persist the token the backend
// issues in return.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/monmarche/monmarche-cli/internal/common/logtrace"
	"github.com/monmarche/monmarche-cli/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Configurator provides the server address and client identification.
type Configurator interface {
	GetServerURL() string
	GetUserAgent() string
}

// SessionProvider is the credential storage the gateway reads from and, on
// login, writes to.
type SessionProvider interface {
	Read() (session.Credential, error)
	Write(session.Credential) error
}

var (
	// ErrRequest is returned when the call could not be built or completed.
	ErrRequest = errors.New("request failed")
	// ErrDecode is returned when the body does not decode into the expected shape.
	ErrDecode = errors.New("failed to decode response")
	// ErrSession is returned when the credential could not be loaded or saved.
	ErrSession = errors.New("session storage failed")
)

// HTTPError represents an error response from the server with HTTP status code and message.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Message    string // server supplied error message or raw body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// HTTPClient represents a client for making HTTP requests to the backend.
type HTTPClient struct {
	config     Configurator
	sessions   SessionProvider
	httpClient *http.Client
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	Timeout   time.Duration     // zero means no transport timeout
	Transport http.RoundTripper // nil means http.DefaultTransport
}

// NewClient creates a new HTTP client using the provided configuration and
// session storage.
func NewClient(config Configurator, sessions SessionProvider, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	return &HTTPClient{
		config:   config,
		sessions: sessions,
		httpClient: &http.Client{
			Timeout:   clientOpts.Timeout,
			Transport: clientOpts.Transport,
		},
	}
}

// RequestOptions describes one outbound call.
type RequestOptions struct {
	Method      string            // GET, POST, PATCH or DELETE
	Path        string            // API endpoint path
	QueryParams map[string]string // Optional query parameters
	Body        []byte            // Optional JSON request body
	IsLogin     bool              // no credential attached; issued token persisted
}

// Response is the outcome of a completed call.
type Response struct {
	StatusCode    int
	Body          []byte
	SessionIssued bool // login only: a token was found and persisted
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// DoRequest performs the call and returns the raw response body.
//
// Status codes of 400 and above are returned as *HTTPError, except for login
// responses whose body carries an application "error" field: those are
// returned as a normal Response so the caller can report the backend's reason.
func (c *HTTPClient) DoRequest(ctx context.Context, opts RequestOptions) (*Response, error) {
	method := strings.ToUpper(opts.Method)
	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: unsupported method %q", ErrRequest, opts.Method)
	}

	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid server URL: %w", ErrRequest, err)
	}
	u.Path = path.Join(u.Path, opts.Path)

	q := u.Query()
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var bodyReader io.Reader
	if len(opts.Body) > 0 {
		bodyReader = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ua := c.config.GetUserAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	if id := logtrace.OperationID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	if !opts.IsLogin {
		cred, err := c.sessions.Read()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSession, err)
		}
		req.AddCookie(&http.Cookie{Name: cred.CookieName, Value: cred.Token})
	}

	logger := logtrace.Logger(ctx)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("method", method).Str("path", opts.Path).Msg("remote call failed")
		return nil, fmt.Errorf("%w: %w", ErrRequest, errors.Wrapf(err, "%s %s", method, opts.Path))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, errors.Wrap(err, "failed to read response body"))
	}
	logger.Debug().
		Str("method", method).
		Str("path", opts.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("remote call")

	if resp.StatusCode >= 400 && !(opts.IsLogin && HasApplicationError(body)) {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.StatusCode, body),
		}
	}

	out := &Response{StatusCode: resp.StatusCode, Body: body}
	if opts.IsLogin && LoginAccepted(body) {
		if token := issuedToken(resp, body); token != "" {
			if err := c.sessions.Write(session.Credential{Token: token, CookieName: session.DefaultCookieName}); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSession, err)
			}
			out.SessionIssued = true
			logger.Debug().Msg("session credential stored")
		}
	}
	return out, nil
}

// Call performs the request and decodes the body into out. A nil out
// discards the body.
func (c *HTTPClient) Call(ctx context.Context, opts RequestOptions, out any) (*Response, error) {
	resp, err := c.DoRequest(ctx, opts)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return resp, nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, errors.Wrapf(err, "%s %s", opts.Method, opts.Path))
	}
	return resp, nil
}

// HasApplicationError reports whether a JSON body carries a top-level "error"
// field that is neither null nor false. An empty string counts as an error.
func HasApplicationError(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	e := gjson.GetBytes(body, "error")
	return e.Exists() && e.Type != gjson.Null && e.Type != gjson.False
}

// LoginAccepted reports whether a login response body allows the issued
// token to be kept: the body is empty, or valid JSON without an application
// error.
func LoginAccepted(body []byte) bool {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return true
	}
	return gjson.ValidBytes(body) && !HasApplicationError(body)
}

func issuedToken(resp *http.Response, body []byte) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.DefaultCookieName && cookie.Value != "" {
			return cookie.Value
		}
	}
	if gjson.ValidBytes(body) {
		return gjson.GetBytes(body, "token").String()
	}
	return ""
}

func serverMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"error", "message"} {
			if m := gjson.GetBytes(body, field); m.Type == gjson.String && m.String() != "" {
				return m.String()
			}
		}
	}
	if status == http.StatusNotFound && len(body) == 0 {
		return "server doesn't implement this endpoint"
	}
	return strings.TrimSpace(string(body))
}
