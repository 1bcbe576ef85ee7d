package credentials

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jrsteele09/go-oauth-client/oauthmodel"
)

// ClientIdentity is the immutable identity of a credential scope: one
// identity maps to one cache slot. It is only ever read; request-shaping
// happens in the token package.
type ClientIdentity struct {
	// GrantType selects the acquisition flow.
	GrantType oauthmodel.GrantType

	// AuthURL is the authorization server's token endpoint.
	// Example: "https://login.example.com/oauth/token"
	AuthURL string

	// ClientID identifies the client. Doubles as the resource-owner
	// username for the password grant.
	ClientID string

	// ClientSecret is the client secret. Doubles as the resource-owner
	// password for the password grant. Unset for service-account flows.
	// Security: Never log or expose this value
	ClientSecret string

	// CredentialsFile is the path to a service-account credentials file.
	// Set instead of ClientSecret for the GCP flow.
	CredentialsFile string

	// Scope is the optional space-separated scope string. Sent as
	// "resource" for Azure and GCP flows, "scope" otherwise.
	Scope string

	// Subject optionally names a user to impersonate (GCP domain-wide
	// delegation); becomes the assertion's "sub" claim.
	Subject string

	// CredentialsInBody moves client credentials from the HTTP Basic
	// authorization header into the request body for generic grants.
	// Request shaping only: it does not participate in the cache key.
	CredentialsInBody bool
}

// CacheKey derives the stable cache key for this identity: a hex SHA-256
// digest over the identity tuple. Identities differing in any tuple field
// get distinct slots; CredentialsInBody is deliberately excluded.
func (id ClientIdentity) CacheKey() string {
	h := sha256.New()
	for _, field := range []string{
		string(id.GrantType),
		id.AuthURL,
		id.ClientID,
		id.ClientSecret,
		id.CredentialsFile,
		id.Scope,
		id.Subject,
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Validate checks the identity is complete enough to request a token with.
func (id ClientIdentity) Validate() error {
	if !id.GrantType.Valid() {
		return oauthmodel.ErrUnsupportedGrantType
	}
	if id.GrantType == oauthmodel.GCPClientCredentialsGrant {
		if strings.TrimSpace(id.CredentialsFile) == "" {
			return oauthmodel.ErrMissingCredentialsFile
		}
		return nil
	}
	if strings.TrimSpace(id.ClientID) == "" || strings.TrimSpace(id.ClientSecret) == "" {
		return oauthmodel.ErrMissingClientCredentials
	}
	return nil
}
