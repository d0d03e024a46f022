package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/barqchain/walletctl/internal/logging"
)

// TokenSource supplies the bearer credential for authenticated requests.
// The session store implements it; requests without a token are sent
// unauthenticated.
type TokenSource interface {
	Token() (string, bool)
}

// Client is the single seam to the remote wallet service. Every payload is
// decoded out of the `{data, message}` envelope into a typed struct at this
// boundary; nothing downstream sees raw JSON.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a gateway client for the given base URL. tokens may be nil for
// a client that only performs unauthenticated calls.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		tokens:  tokens,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RemoteError carries a response-level rejection from the remote service.
// Message is the server's own message, surfaced verbatim when present.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsNotFound reports whether err is a remote 404 rejection.
func IsNotFound(err error) bool {
	var re *RemoteError
	return asRemote(err, &re) && re.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a remote 401 rejection, signalling a
// credential the service no longer accepts.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	return asRemote(err, &re) && re.Status == http.StatusUnauthorized
}

func asRemote(err error, target **RemoteError) bool {
	for err != nil {
		if re, ok := err.(*RemoteError); ok {
			*target = re
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// envelope is the fixed response wrapper used by every endpoint.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	var env envelope
	if len(raw) > 0 {
		// A malformed envelope on an error status must still surface the
		// rejection, so decode failures only matter on success paths.
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 400 {
			return fmt.Errorf("%s %s: decode envelope: %w", method, path, err)
		}
	}

	if resp.StatusCode >= 400 {
		c.logger.Debug("remote rejection", "method", method, "path", path, "status", resp.StatusCode, "message", env.Message)
		return &RemoteError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode payload: %w", method, path, err)
	}
	return nil
}
