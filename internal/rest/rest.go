// Package rest is the shared request plumbing behind the BugBoard clients:
// one pooled HTTP client, per-call timeouts, and debug logging that never
// leaks the bearer credential.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/bugboard/go-bugboard/apierror"
	"github.com/bugboard/go-bugboard/token"
)

// connectTimeout bounds connection establishment; individual operations set
// their own overall deadline through Request.Timeout.
const connectTimeout = 5 * time.Second

// Client wraps a single long-lived http.Client. Connection pooling is the
// transport's job; everything here is stateless.
type Client struct {
	http *http.Client
}

// NewClient builds a Client with the shared transport configuration.
func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: connectTimeout}).DialContext,
				TLSHandshakeTimeout: connectTimeout,
				MaxIdleConnsPerHost: 4,
			},
		},
	}
}

// NewClientWith wraps an existing http.Client, used by tests and by callers
// that need custom transport behaviour.
func NewClientWith(hc *http.Client) *Client {
	return &Client{http: hc}
}

// Request describes one call. Authorization, when non-empty, must already be
// in the normalized "Bearer <jwt>" form produced by the session store.
type Request struct {
	Method        string
	URL           string
	Body          []byte
	ContentType   string
	Accept        string
	Authorization string
	Timeout       time.Duration
	// BinaryResponse suppresses body logging for payloads that are not text,
	// such as image downloads.
	BinaryResponse bool
}

// Response carries the raw outcome; status mapping stays with the caller
// because the taxonomy differs slightly per endpoint (409 on register, empty
// body on image 403).
type Response struct {
	Status int
	Body   []byte
}

// Do sends the request and reads the full body. Network and context failures
// come back as errors; any HTTP status, including non-2xx, comes back as a
// Response for the caller to classify.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	if r.Accept != "" {
		req.Header.Set("Accept", r.Accept)
	}
	if r.Authorization != "" {
		// Set, not Add: the Authorization header must never be duplicated.
		req.Header.Set("Authorization", r.Authorization)
	}

	log.Debug().
		Str("method", r.Method).
		Str("url", r.URL).
		Str("authorization", token.Redact(r.Authorization)).
		Msg("bugboard request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", r.Method, r.URL)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response of %s %s", r.Method, r.URL)
	}

	ev := log.Debug().Int("status", resp.StatusCode)
	if r.BinaryResponse {
		ev = ev.Int("bytes", len(data))
	} else {
		ev = ev.Str("body", apierror.Truncate(string(data), 400))
	}
	ev.Msg("bugboard response")

	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// EncodeJSON marshals a JSON request body.
func EncodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode request body")
	}
	return data, nil
}

// JSONContentType is the content type sent with every JSON body.
const JSONContentType = "application/json; charset=utf-8"
