package issues

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/bugboard/go-bugboard/apierror"
	"github.com/bugboard/go-bugboard/internal/rest"
	"github.com/bugboard/go-bugboard/session"
)

// Timeouts holds the per-operation deadlines. Upload and download are the
// longest because they carry image payloads.
type Timeouts struct {
	List     time.Duration
	Mutate   time.Duration
	Upload   time.Duration
	Download time.Duration
}

// DefaultTimeouts mirrors the backend's expected response times.
var DefaultTimeouts = Timeouts{
	List:     12 * time.Second,
	Mutate:   15 * time.Second,
	Upload:   20 * time.Second,
	Download: 15 * time.Second,
}

// Client calls the issue endpoints. Every operation reads the bearer token
// from the session store first and fails with ErrUnauthorized before any
// network I/O when none is held.
type Client struct {
	baseURL  string
	store    *session.Store
	rest     *rest.Client
	timeouts Timeouts
}

// Option configures a Client.
type Option func(*Client)

// WithRESTClient substitutes the underlying transport, primarily for tests.
func WithRESTClient(rc *rest.Client) Option {
	return func(c *Client) {
		c.rest = rc
	}
}

// WithTimeouts overrides the per-operation deadlines.
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) {
		c.timeouts = t
	}
}

// NewClient builds an issue client bound to a session store.
func NewClient(baseURL string, store *session.Store, options ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		store:    store,
		rest:     rest.NewClient(),
		timeouts: DefaultTimeouts,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// bearer returns the normalized Authorization value or fails fast when the
// session holds no token.
func (c *Client) bearer() (string, error) {
	tok, ok := c.store.BearerToken()
	if !ok {
		return "", fmt.Errorf("no session token, log in again: %w", apierror.ErrUnauthorized)
	}
	return tok, nil
}

// List fetches all issues ordered by sortKey. The key is sent URL-encoded as
// the sort query parameter.
func (c *Client) List(ctx context.Context, sortKey string) ([]Issue, error) {
	bearer, err := c.bearer()
	if err != nil {
		return nil, err
	}

	resp, err := c.rest.Do(ctx, rest.Request{
		Method:        "GET",
		URL:           c.baseURL + "/bugboard/issue/view?sort=" + url.QueryEscape(sortKey),
		Accept:        "application/json",
		Authorization: bearer,
		Timeout:       c.timeouts.List,
	})
	if err != nil {
		return nil, err
	}
	if resp.Status != 200 {
		return nil, apierror.FromStatus(resp.Status, string(resp.Body))
	}

	var list []Issue
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, &apierror.ProtocolError{Detail: "malformed issue list", Body: string(resp.Body)}
	}
	return list, nil
}

// Create reports a new issue and returns the id the server assigned. The
// priority is omitted from the payload when it is PriorityNone.
func (c *Client) Create(ctx context.Context, title, description string, typ Type, priority Priority) (int64, error) {
	bearer, err := c.bearer()
	if err != nil {
		return 0, err
	}

	payload := map[string]any{
		"title":       title,
		"description": description,
		"type":        string(typ),
	}
	if priority != PriorityNone {
		payload["priority"] = string(priority)
	}
	body, err := rest.EncodeJSON(payload)
	if err != nil {
		return 0, err
	}

	resp, err := c.rest.Do(ctx, rest.Request{
		Method:        "POST",
		URL:           c.baseURL + "/bugboard/issue/new",
		Body:          body,
		ContentType:   rest.JSONContentType,
		Accept:        "application/json",
		Authorization: bearer,
		Timeout:       c.timeouts.Mutate,
	})
	if err != nil {
		return 0, err
	}
	if resp.Status != 200 && resp.Status != 201 {
		return 0, apierror.FromStatus(resp.Status, string(resp.Body))
	}

	var ack struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &ack); err != nil || ack.ID == nil {
		return 0, &apierror.ProtocolError{Detail: "create acknowledgement missing id", Body: string(resp.Body)}
	}
	return *ack.ID, nil
}

// ModifyFields carries the optional fields of a partial update. A blank field
// stays out of the request body entirely, so the server leaves it untouched.
type ModifyFields struct {
	Title       string
	Description string
	Type        Type
	Priority    Priority
	State       string
}

// Modify partially updates an existing issue. The id is mandatory and checked
// locally; the body contains exactly the non-blank fields.
func (c *Client) Modify(ctx context.Context, id int64, fields ModifyFields) error {
	if id == 0 {
		return apierror.Validationf("issue id is required")
	}
	bearer, err := c.bearer()
	if err != nil {
		return err
	}

	payload := map[string]any{}
	if fields.Title != "" {
		payload["title"] = fields.Title
	}
	if fields.Description != "" {
		payload["description"] = fields.Description
	}
	if fields.Type != "" {
		payload["type"] = string(fields.Type)
	}
	if fields.Priority != PriorityNone {
		payload["priority"] = string(fields.Priority)
	}
	if fields.State != "" {
		payload["state"] = fields.State
	}
	body, err := rest.EncodeJSON(payload)
	if err != nil {
		return err
	}

	resp, err := c.rest.Do(ctx, rest.Request{
		Method:        "PUT",
		URL:           fmt.Sprintf("%s/bugboard/issue/modify/%d", c.baseURL, id),
		Body:          body,
		ContentType:   rest.JSONContentType,
		Accept:        "application/json",
		Authorization: bearer,
		Timeout:       c.timeouts.Mutate,
	})
	if err != nil {
		return err
	}
	if resp.Status != 200 {
		return apierror.FromStatus(resp.Status, string(resp.Body))
	}
	return nil
}
