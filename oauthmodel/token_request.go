package oauthmodel

import "net/url"

// TokenRequest holds the form parameters for an OAuth2 token request.
// This represents the request body sent to the authorization server's
// /token endpoint. Which fields are populated depends on the grant type;
// the policy table in the token package decides that.
type TokenRequest struct {
	// GrantType is the wire value for the grant_type field.
	// Required: Yes (for all grant types)
	// Example: "client_credentials" or the RFC 7523 jwt-bearer URN
	GrantType string

	// ClientID identifies the OAuth2 client making the request.
	// Required: Only when credentials are carried in the body rather than
	// an HTTP Basic authorization header.
	// Example: "web-app-client"
	ClientID string

	// ClientSecret is the secret credential for confidential clients.
	// Required: Only alongside ClientID in the body.
	// Security: Never log or expose this value
	ClientSecret string

	// Username is the resource-owner username for the password grant.
	// Required: Yes (only for password grant)
	Username string

	// Password is the resource-owner password for the password grant.
	// Required: Yes (only for password grant)
	// Security: Never log or expose this value
	Password string

	// RefreshToken is used to obtain new access tokens without re-authentication.
	// Required: Yes (only for refresh_token grant)
	// Example: "tGzv3JOkF0XG5Qx2TlKWIA"
	RefreshToken string

	// Scope is the space-separated list of requested permissions.
	// Required: No (omitted from the wire when empty)
	// Example: "api.read api.write"
	Scope string

	// Resource carries the scope for Azure and GCP flows, which expect a
	// "resource" field instead of "scope".
	// Required: No (omitted from the wire when empty)
	Resource string

	// Assertion is the signed JWT for the jwt-bearer grant.
	// Required: Yes (only for the GCP service-account flow)
	Assertion string
}

// Values encodes the request as application/x-www-form-urlencoded form values.
// Empty optional fields are omitted entirely rather than sent blank.
func (r TokenRequest) Values() url.Values {
	v := url.Values{}
	v.Set("grant_type", r.GrantType)
	setIfPresent(v, "client_id", r.ClientID)
	setIfPresent(v, "client_secret", r.ClientSecret)
	setIfPresent(v, "username", r.Username)
	setIfPresent(v, "password", r.Password)
	setIfPresent(v, "refresh_token", r.RefreshToken)
	setIfPresent(v, "scope", r.Scope)
	setIfPresent(v, "resource", r.Resource)
	setIfPresent(v, "assertion", r.Assertion)
	return v
}

func setIfPresent(v url.Values, key, value string) {
	if value == "" {
		return
	}
	v.Set(key, value)
}
