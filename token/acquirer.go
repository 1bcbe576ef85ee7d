package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrsteele09/go-oauth-client/credentials"
	"github.com/jrsteele09/go-oauth-client/internal/utils"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/jrsteele09/go-oauth-client/transport"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const formContentType = "application/x-www-form-urlencoded"

// AcquireOptions modifies a single acquisition.
type AcquireOptions struct {
	// PriorRefreshToken is the refresh token from the previous credential
	// for this identity, if any. It is the input to the refresh_token
	// grant, and it is carried over into the new credential when the
	// server omits refresh_token from its response.
	PriorRefreshToken string
}

// Acquirer exchanges a client identity for a credential: it builds the
// grant-specific token request, performs exactly one network exchange
// against the identity's token endpoint, and normalizes the response.
// Retrying is the caller's concern, never the acquirer's.
type Acquirer struct {
	transport       transport.Transport
	signer          Signer
	nowFunc         func() time.Time
	logger          zerolog.Logger
	assertionWindow time.Duration
}

// Option defines a function type to modify the Acquirer instance.
type Option func(*Acquirer)

// WithTransport sets the HTTP transport used for the token exchange.
func WithTransport(t transport.Transport) Option {
	return func(a *Acquirer) {
		a.transport = t
	}
}

// WithSigner sets the assertion signer for service-account flows.
func WithSigner(signer Signer) Option {
	return func(a *Acquirer) {
		a.signer = signer
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) Option {
	return func(a *Acquirer) {
		a.nowFunc = now
	}
}

// WithLogger sets the logger used for acquisition events.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Acquirer) {
		a.logger = logger
	}
}

// WithAssertionWindow sets the service-account assertion validity window
// (exp - iat). Defaults to five minutes.
func WithAssertionWindow(window time.Duration) Option {
	return func(a *Acquirer) {
		a.assertionWindow = window
	}
}

// New creates an Acquirer. The zero configuration uses the default
// net/http transport, the RS256 signer and the wall clock.
func New(options ...Option) *Acquirer {
	a := &Acquirer{
		signer:          NewRS256Signer(),
		nowFunc:         time.Now,
		logger:          zerolog.Nop(),
		assertionWindow: 5 * time.Minute,
	}
	for _, opt := range options {
		opt(a)
	}
	if a.transport == nil {
		a.transport = transport.New()
	}
	return a
}

// Acquire obtains a credential for the identity. All failures come back as
// an *AcquisitionError identifying the client and grant type; the underlying
// cause is reachable through errors.Is/As.
func (a *Acquirer) Acquire(ctx context.Context, identity credentials.ClientIdentity, opts AcquireOptions) (credentials.Credential, error) {
	policy, ok := grantPolicies[identity.GrantType]
	if !ok {
		return credentials.Credential{}, a.acquisitionError(identity, oauthmodel.ErrUnsupportedGrantType)
	}

	request, err := policy.build(a, identity, opts)
	if err != nil {
		return credentials.Credential{}, a.acquisitionError(identity, err)
	}

	if identity.Scope != "" {
		switch policy.scopeField {
		case scopeFieldResource:
			request.Resource = identity.Scope
		default:
			request.Scope = identity.Scope
		}
	}

	headers := map[string]string{}
	switch policy.placement(identity) {
	case authBasicHeader:
		headers["Authorization"] = "Basic " + basicCredentials(identity.ClientID, identity.ClientSecret)
	case authInBody:
		request.ClientID = identity.ClientID
		request.ClientSecret = identity.ClientSecret
	}

	response, err := a.transport.Send(ctx, transport.Request{
		Method:      http.MethodPost,
		URL:         a.tokenURL(identity),
		ContentType: formContentType,
		Headers:     headers,
		Body:        []byte(request.Values().Encode()),
	})
	if err != nil {
		return credentials.Credential{}, a.acquisitionError(identity, err)
	}
	if err := transport.ValidateStatus(response, http.StatusOK); err != nil {
		return credentials.Credential{}, a.acquisitionError(identity, err)
	}

	credential, err := a.parseResponse(response.Body, opts)
	if err != nil {
		return credentials.Credential{}, a.acquisitionError(identity, err)
	}

	a.logger.Debug().
		Str("clientID", identity.ClientID).
		Str("grantType", string(identity.GrantType)).
		Int64("expiresAt", credential.ExpiresAt).
		Msg("token acquired")

	return credential, nil
}

// parseResponse normalizes the token endpoint's JSON body into a Credential.
func (a *Acquirer) parseResponse(body []byte, opts AcquireOptions) (credentials.Credential, error) {
	var response oauthmodel.TokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return credentials.Credential{}, errors.Wrap(err, "failed to decode token response")
	}

	if utils.Value(response.AccessToken) == "" {
		return credentials.Credential{}, oauthmodel.ErrMissingAccessToken
	}

	credential := credentials.Credential{
		AccessToken:  utils.Value(response.AccessToken),
		RefreshToken: utils.Value(response.RefreshToken),
		TokenType:    credentials.NormalizeTokenType(response.TokenType),
	}
	if credential.RefreshToken == "" {
		credential.RefreshToken = opts.PriorRefreshToken
	}
	if expiresIn := utils.Value(response.ExpiresIn); expiresIn > 0 {
		credential.ExpiresAt = a.nowFunc().Unix() + expiresIn
	}
	return credential, nil
}

// tokenURL resolves the request target; GCP identities without an explicit
// endpoint default to the fixed Google one.
func (a *Acquirer) tokenURL(identity credentials.ClientIdentity) string {
	if identity.AuthURL == "" && identity.GrantType == oauthmodel.GCPClientCredentialsGrant {
		return GoogleTokenURL
	}
	return identity.AuthURL
}

func (a *Acquirer) acquisitionError(identity credentials.ClientIdentity, err error) error {
	return &AcquisitionError{
		ClientID:  identity.ClientID,
		GrantType: identity.GrantType,
		Err:       err,
	}
}

func basicCredentials(clientID, clientSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
}
