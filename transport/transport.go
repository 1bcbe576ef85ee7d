package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// Request describes one outbound HTTP exchange.
type Request struct {
	Method      string
	URL         string
	ContentType string
	Headers     map[string]string
	Body        []byte
}

// Response is the result of a completed exchange. Any status code counts as
// a completed exchange; callers validate statuses via ValidateStatus.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Transport issues HTTP requests. Send returns an error only for
// exchange-level failures (connection, context cancellation, unreadable
// body); HTTP error statuses come back in the Response.
type Transport interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// Client is the default Transport over net/http.
type Client struct {
	httpClient *http.Client
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying http.Client entirely.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a transport with a 30 second default timeout.
func New(options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, &Error{Op: "request", URL: req.URL, Err: err}
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: "send", URL: req.URL, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Op: "read", URL: req.URL, Err: err}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}
