package client

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/jrsteele09/go-oauth-client/credentials"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/jrsteele09/go-oauth-client/transport"
	"github.com/rs/zerolog"
)

// Request describes one authenticated HTTP call.
type Request struct {
	Method      string
	URL         string
	ContentType string
	// ExpectedStatusCodes lists the statuses treated as success. Empty
	// accepts any status (a 401 still triggers the single retry first).
	ExpectedStatusCodes []int
	Headers             map[string]string
	Body                []byte
}

// Client issues HTTP requests authenticated as one client identity. It
// starts unauthenticated, acquires a credential through the cache on first
// use, and on a 401 forces exactly one re-acquisition and retry. Concurrent
// calls proceed in parallel; only token acquisition is coordinated, by the
// cache.
type Client struct {
	identity  credentials.ClientIdentity
	cache     *credentials.Cache
	acquirer  *token.Acquirer
	transport transport.Transport
	logger    zerolog.Logger

	mu       sync.Mutex
	attached *credentials.Credential
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithCache shares a credential cache between clients. Clients for the
// same identity sharing one cache share refreshes.
func WithCache(cache *credentials.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithAcquirer replaces the token acquirer.
func WithAcquirer(acquirer *token.Acquirer) Option {
	return func(c *Client) {
		c.acquirer = acquirer
	}
}

// WithTransport sets the HTTP transport for resource requests. The
// acquirer's transport is configured separately via WithAcquirer.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLogger sets the logger used for request and refresh events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the given identity. The identity must be valid;
// collaborators default to a private cache, a default acquirer and the
// net/http transport.
func New(identity credentials.ClientIdentity, options ...Option) (*Client, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		identity: identity,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.cache == nil {
		c.cache = credentials.New()
	}
	if c.transport == nil {
		c.transport = transport.New()
	}
	if c.acquirer == nil {
		c.acquirer = token.New(token.WithTransport(c.transport))
	}
	return c, nil
}

// Token returns a valid credential for the client's identity, acquiring or
// refreshing through the cache as needed.
func (c *Client) Token(ctx context.Context) (credentials.Credential, error) {
	return c.ensureCredential(ctx, nil)
}

// Do issues the request with a credential attached. On a 401 it forces a
// refresh strictly newer than the credential it just used, retries exactly
// once, and returns that retry's outcome whatever it is - a second 401 is
// reported like any other unexpected status, never retried again.
func (c *Client) Do(ctx context.Context, req Request) (*transport.Response, error) {
	credential, err := c.ensureCredential(ctx, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.send(ctx, req, credential)
	if err != nil {
		return nil, err
	}

	if response.StatusCode == http.StatusUnauthorized {
		c.logger.Debug().
			Str("url", req.URL).
			Str("clientID", c.identity.ClientID).
			Msg("received 401, forcing credential refresh")

		// Demand a credential strictly newer than the one the server just
		// rejected; a refresh completed by a concurrent caller satisfies
		// this without a second round-trip.
		staleExpiry := credential.ExpiresAt
		credential, err = c.ensureCredential(ctx, &staleExpiry)
		if err != nil {
			return nil, err
		}

		response, err = c.send(ctx, req, credential)
		if err != nil {
			return nil, err
		}
	}

	if err := transport.ValidateStatus(response, req.ExpectedStatusCodes...); err != nil {
		return response, err
	}
	return response, nil
}

// ensureCredential obtains a credential through the cache, using the
// acquirer as the compute function, and records it as the attached token.
func (c *Client) ensureCredential(ctx context.Context, forceRefreshOlderThanOrEqual *int64) (credentials.Credential, error) {
	priorRefreshToken := c.attachedRefreshToken()

	credential, err := c.cache.GetOrCompute(c.identity.CacheKey(), func() (credentials.Credential, error) {
		return c.acquirer.Acquire(ctx, c.identity, token.AcquireOptions{PriorRefreshToken: priorRefreshToken})
	}, credentials.GetOptions{ForceRefreshOlderThanOrEqual: forceRefreshOlderThanOrEqual})
	if err != nil {
		return credentials.Credential{}, err
	}

	c.mu.Lock()
	c.attached = &credential
	c.mu.Unlock()
	return credential, nil
}

func (c *Client) attachedRefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached == nil {
		return ""
	}
	return c.attached.RefreshToken
}

// send issues one exchange with the credential attached. Any caller-supplied
// Authorization header is replaced, never appended to.
func (c *Client) send(ctx context.Context, req Request, credential credentials.Credential) (*transport.Response, error) {
	headers := make(map[string]string, len(req.Headers)+1)
	for key, value := range req.Headers {
		if strings.EqualFold(key, "Authorization") {
			continue
		}
		headers[key] = value
	}
	headers["Authorization"] = authorizationHeader(c.identity.GrantType, credential)

	return c.transport.Send(ctx, transport.Request{
		Method:      req.Method,
		URL:         req.URL,
		ContentType: req.ContentType,
		Headers:     headers,
		Body:        req.Body,
	})
}

// authorizationHeader picks the authorization scheme: bearer for the Azure
// and GCP flows and for any bearer-typed credential, the plain token scheme
// otherwise.
func authorizationHeader(grantType oauthmodel.GrantType, credential credentials.Credential) string {
	switch {
	case grantType == oauthmodel.AzureClientCredentialsGrant,
		grantType == oauthmodel.GCPClientCredentialsGrant,
		credential.TokenType == credentials.TokenTypeBearer:
		return "Bearer " + credential.AccessToken
	default:
		return "token " + credential.AccessToken
	}
}
