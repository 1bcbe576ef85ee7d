package oauthmodel

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in RFC 6749.
// Returned from the /token endpoint for all grant types.
type TokenResponse struct {
	// AccessToken is the token used to access protected resources.
	// Example: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."
	// Usage: Include in Authorization header: "Bearer <access_token>"
	// Required: Yes - a response without it is an acquisition error
	AccessToken *string `json:"access_token,omitempty"`

	// TokenType indicates how to use the access token.
	// Example: "bearer" or "Bearer" (compared case-insensitively)
	// Usage: Anything other than bearer is preserved as "unsupported"
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Example: 900 (for 15 minutes)
	// Usage: Converted to an absolute expiry at acquisition time
	// Note: Absent means the server declared no expiry; the credential
	// cache then applies its own default TTL
	ExpiresIn *int64 `json:"expires_in,omitempty"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Example: "tGzv3JOkF0XG5Qx2TlKWIA"
	// Usage: Send with grant_type=refresh_token
	// Note: Servers may omit it on re-acquisition; the previous refresh
	// token is then carried over
	RefreshToken *string `json:"refresh_token,omitempty"`

	// Scope indicates the access token's granted permissions.
	// Example: "api.read api.write"
	// Note: May be less than requested if some scopes were denied
	Scope string `json:"scope,omitempty"`
}
