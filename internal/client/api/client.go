// Package api implements the HTTP client for the platform REST API.
//
// All requests attach the bearer token supplied by the token provider,
// carry an X-Request-Id header for correlation, and normalize failures
// into *Error values that map onto the package sentinels. A response
// with status 401 additionally fires the on-unauthorized hook exactly
// once per response, which the session layer uses to force a sign-out
// regardless of which screen issued the request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/folkz/storeadmin/internal/logging"
)

// TokenProvider returns the current bearer token, or "" when signed out.
// The session store is the only writer of the persisted token; everything
// else observes it through this indirection.
type TokenProvider func() string

// Client talks to the platform REST API.
type Client struct {
	baseURL        string
	http           *http.Client
	token          TokenProvider
	onUnauthorized func()
	log            logging.Logger
}

// New constructs a Client for the given base URL.
func New(baseURL string, httpClient *http.Client, token TokenProvider, log logging.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		token:   token,
		log:     log,
	}
}

// OnUnauthorized registers fn to be called whenever any request is
// rejected with 401. At most one hook is supported; the session store
// registers its forced sign-out transition here.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

type requestOpts struct {
	query url.Values
	form  url.Values
	body  any
	// skipAuthHook suppresses the on-unauthorized hook; used by the login
	// exchange, where a 401 means bad credentials, not a revoked session.
	skipAuthHook bool
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, requestOpts{query: query}, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, requestOpts{query: query, body: body}, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPut, path, requestOpts{query: query, body: body}, out)
}

// Patch issues a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, requestOpts{query: query, body: body}, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, requestOpts{query: query}, nil)
}

// PostForm issues a POST request with a form-encoded body. The 401 hook is
// suppressed: a rejected credential exchange is an authentication failure
// surfaced to the caller, not a revoked session.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, requestOpts{form: form, skipAuthHook: true}, out)
}

func (c *Client) do(ctx context.Context, method, path string, opts requestOpts, out any) error {
	u := c.baseURL + path
	if len(opts.query) > 0 {
		u += "?" + opts.query.Encode()
	}

	var reqBody io.Reader
	contentType := ""
	switch {
	case opts.form != nil:
		reqBody = strings.NewReader(opts.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case opts.body != nil:
		data, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
		if resp.StatusCode == 401 && !opts.skipAuthHook && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		c.log.Warn(ctx, "request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// readDetail extracts the server-supplied error message, if any.
// The backend reports errors as {"detail": "..."}.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
