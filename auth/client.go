// Package auth exchanges credentials for a BugBoard session.
package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bugboard/go-bugboard/apierror"
	"github.com/bugboard/go-bugboard/internal/rest"
	"github.com/bugboard/go-bugboard/internal/utils"
)

// LoginResult is the parsed login acknowledgement. The token is raw, exactly
// as the server sent it; the session store normalizes it on Set.
type LoginResult struct {
	UserID int64
	Role   string
	Token  string
}

// Client performs the login exchange. It deliberately does not touch the
// session store: the caller decides whether and where to install the result,
// which keeps login testable without global state.
type Client struct {
	baseURL string
	rest    *rest.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRESTClient substitutes the underlying transport, primarily for tests.
func WithRESTClient(rc *rest.Client) Option {
	return func(c *Client) {
		c.rest = rc
	}
}

// WithTimeout overrides the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient builds a login client for the given base URL.
func NewClient(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		rest:    rest.NewClient(),
		timeout: 10 * time.Second,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"psw"`
}

// loginResponse uses pointers so that absent and present-but-zero fields are
// distinguishable; all three are mandatory.
type loginResponse struct {
	UserID *int64  `json:"userID"`
	Role   *string `json:"role"`
	Token  *string `json:"token"`
}

// Login POSTs the credentials to /bugboard/login and parses the session
// acknowledgement. A 2xx body missing any of userID, role or token is a
// protocol error, distinct from an HTTP failure.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := rest.EncodeJSON(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.rest.Do(ctx, rest.Request{
		Method:      "POST",
		URL:         c.baseURL + "/bugboard/login",
		Body:        body,
		ContentType: rest.JSONContentType,
		Accept:      "application/json",
		Timeout:     c.timeout,
	})
	if err != nil {
		return nil, err
	}
	if resp.Status != 200 {
		return nil, apierror.FromStatus(resp.Status, string(resp.Body))
	}

	var parsed loginResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, &apierror.ProtocolError{Detail: "malformed login response", Body: string(resp.Body)}
	}
	if parsed.UserID == nil || parsed.Role == nil || parsed.Token == nil || *parsed.Token == "" {
		return nil, &apierror.ProtocolError{Detail: "login response missing userID, role or token", Body: string(resp.Body)}
	}

	return &LoginResult{
		UserID: utils.Value(parsed.UserID),
		Role:   utils.Value(parsed.Role),
		Token:  utils.Value(parsed.Token),
	}, nil
}
