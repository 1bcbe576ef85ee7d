package credentials

import "strings"

// TokenType indicates how an access token should be presented to resource
// servers. Anything the authorization server reports other than bearer is
// preserved as unsupported rather than rejected; the request driver falls
// back to the "token" authorization scheme for those.
type TokenType string

const (
	TokenTypeBearer      TokenType = "bearer"
	TokenTypeUnsupported TokenType = "unsupported"
)

// NormalizeTokenType maps the server-reported token_type field onto the
// closed TokenType set. The comparison is case-insensitive ("Bearer",
// "bearer" and "BEARER" are all bearer).
func NormalizeTokenType(tokenType string) TokenType {
	if strings.EqualFold(strings.TrimSpace(tokenType), string(TokenTypeBearer)) {
		return TokenTypeBearer
	}
	return TokenTypeUnsupported
}

// Credential is the result of a successful token acquisition. It is an
// immutable value: a refresh produces a new Credential, never an in-place
// mutation of an existing one.
type Credential struct {
	// AccessToken is the opaque token presented to resource servers.
	AccessToken string

	// RefreshToken is the optional token used for re-acquisition. When the
	// server omits it on refresh, the previous value is carried over.
	RefreshToken string

	// TokenType is the normalized server-reported token type.
	TokenType TokenType

	// ExpiresAt is the absolute expiry as epoch seconds. Zero means the
	// server declared no expiry; the cache then applies its default TTL
	// and stamps the effective expiry here when the credential is stored.
	ExpiresAt int64
}

// HasDeclaredExpiry reports whether the credential carries an absolute expiry.
func (c Credential) HasDeclaredExpiry() bool {
	return c.ExpiresAt > 0
}
