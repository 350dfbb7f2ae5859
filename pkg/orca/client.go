// Package orca is a typed client for the Orca public REST API.
//
//	client := orca.New()
//	info, err := client.GetProtocolInfo(ctx, "solana")
package orca

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/samvad-hq/orca-public-api/pkg/httpclient"
)

const (
	// DefaultBaseURL is the production endpoint of the public API.
	DefaultBaseURL = "https://api.orca.so/v2"
	// DefaultTimeout bounds a single request when no transport is injected.
	DefaultTimeout = 15 * time.Second
	// DefaultUserAgent is sent unless overridden with WithHeaders.
	DefaultUserAgent = "orca-public-api-go"
)

// Client issues requests against the Orca public API. It is immutable after New
// and safe for concurrent use.
type Client struct {
	baseURL string
	headers map[string]string
	http    httpclient.Client
	timeout time.Duration
	log     Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (e.g. a mock server or staging host).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient injects the transport used for every request.
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithHeaders merges headers over the defaults. Empty keys or values are skipped.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			key := strings.TrimSpace(k)
			val := strings.TrimSpace(v)
			if key == "" || val == "" {
				continue
			}
			c.headers[http.CanonicalHeaderKey(key)] = val
		}
	}
}

// WithTimeout sets the request timeout of the default transport.
// It has no effect when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New builds a Client pointed at DefaultBaseURL unless overridden.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": DefaultUserAgent,
		},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}
	c.log = ensureLogger(c.log)
	return c
}

// BaseURL returns the base URL requests are issued against.
func (c *Client) BaseURL() string { return c.baseURL }

// Headers returns a copy of the headers sent with every request.
func (c *Client) Headers() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// endpoint joins path segments onto the base URL, escaping each one.
func (c *Client) endpoint(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// getJSON performs a GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := c.http.Get(ctx, endpoint, query, c.headers)
	if err != nil {
		return &TransportError{URL: endpoint, Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()
	c.log.DebugObj("orca api response", "orca_response", map[string]any{
		"url":    endpoint,
		"query":  query.Encode(),
		"status": status,
		"bytes":  len(body),
	})

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		c.log.WarnObj("orca api returned error status", "orca_status_error", map[string]any{
			"url":    endpoint,
			"status": status,
		})
		return &StatusError{URL: endpoint, StatusCode: status, Body: responseSnippet(body)}
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return &DecodeError{URL: endpoint, Err: errNullBody}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{URL: endpoint, Err: err}
	}
	if err := checkSchema(out); err != nil {
		c.log.WarnObj("orca api body failed schema check", "orca_schema_error", map[string]any{
			"url":   endpoint,
			"error": err.Error(),
		})
		return &DecodeError{URL: endpoint, Err: err}
	}
	return nil
}

var errNullBody = errors.New("response body is null")

// checkSchema enforces the required fields of a decoded body. out is a pointer
// to a struct or to a slice of structs.
func checkSchema(out any) error {
	v := reflect.Indirect(reflect.ValueOf(out))
	switch v.Kind() {
	case reflect.Struct:
		if err := validate.Struct(out); err != nil {
			return fieldErrors(err)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			if reflect.Indirect(elem).Kind() != reflect.Struct {
				continue
			}
			if err := validate.Struct(elem.Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, fieldErrors(err))
			}
		}
	}
	return nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
