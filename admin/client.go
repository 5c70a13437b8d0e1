// Package admin holds the privileged operations of the BugBoard backend.
// Today that is user registration, available to ADMIN sessions only.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/bugboard/go-bugboard/apierror"
	"github.com/bugboard/go-bugboard/internal/rest"
	"github.com/bugboard/go-bugboard/session"
	"github.com/bugboard/go-bugboard/users"
)

// Client calls the admin endpoints. Like the issue client it reads the bearer
// token from the session store and fails fast when none is held; the server
// answers 403 when the session is not an admin.
type Client struct {
	baseURL string
	store   *session.Store
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

// NewClient builds an admin client bound to a session store.
func NewClient(baseURL string, store *session.Store, options ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		store:   store,
		rest:    rest.NewClient(),
		timeout: 12 * time.Second,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"psw"   validate:"required"`
	Role     string `json:"role"  validate:"required,oneof=ADMIN USER"`
}

// RegisterUser creates a new account. The payload is validated locally first;
// a 409 from the server means the email already exists and surfaces as
// ErrConflict.
func (c *Client) RegisterUser(ctx context.Context, email, password string, role users.Role) error {
	reg := registration{Email: email, Password: password, Role: string(role)}
	if err := validate(reg); err != nil {
		return err
	}
	bearer, err := c.bearer()
	if err != nil {
		return err
	}

	body, err := rest.EncodeJSON(reg)
	if err != nil {
		return err
	}

	resp, err := c.rest.Do(ctx, rest.Request{
		Method:        "POST",
		URL:           c.baseURL + "/bugboard/admin/register",
		Body:          body,
		ContentType:   rest.JSONContentType,
		Accept:        "application/json",
		Authorization: bearer,
		Timeout:       c.timeout,
	})
	if err != nil {
		return err
	}
	if resp.Status == 200 || resp.Status == 201 {
		return nil
	}
	return apierror.FromStatus(resp.Status, string(resp.Body))
}

func (c *Client) bearer() (string, error) {
	tok, ok := c.store.BearerToken()
	if !ok {
		return "", fmt.Errorf("no session token, log in again: %w", apierror.ErrUnauthorized)
	}
	return tok, nil
}
