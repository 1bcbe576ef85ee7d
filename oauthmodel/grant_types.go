package oauthmodel

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines how client credentials are presented to the authorization server.
type GrantType string

const (
	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Used in: Backend service authentication (no user context)
	// Token request includes: client_id/client_secret (Basic auth or body), scope
	// Returns: access_token (no refresh_token or id_token)
	// Example: Microservice calling another microservice
	ClientCredentialsGrant GrantType = "client_credentials"

	// PasswordGrant exchanges a resource-owner username and password for tokens.
	// Used in: Legacy first-party clients (discouraged for new integrations)
	// Token request includes: username, password, client credentials, scope
	PasswordGrant GrantType = "password"

	// RefreshTokenGrant exchanges a refresh token for new tokens.
	// Used in: Token refresh flow (get new access token without re-authenticating)
	// Token request includes: refresh_token, client credentials
	RefreshTokenGrant GrantType = "refresh_token"

	// AzureClientCredentialsGrant is the Azure AD flavour of client credentials.
	// Credentials are always carried in the request body, and the requested
	// scope is sent as the "resource" field rather than "scope".
	AzureClientCredentialsGrant GrantType = "azure_client_credentials"

	// GCPClientCredentialsGrant is the Google service-account JWT-bearer flow.
	// A locally signed assertion built from a service-account credentials file
	// replaces the client secret entirely.
	GCPClientCredentialsGrant GrantType = "gcp_client_credentials"
)

// JWTBearerGrantType is the wire value sent as grant_type for the GCP
// service-account flow (RFC 7523).
const JWTBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// Valid reports whether the grant type is one this client knows how to request.
func (g GrantType) Valid() bool {
	switch g {
	case ClientCredentialsGrant, PasswordGrant, RefreshTokenGrant,
		AzureClientCredentialsGrant, GCPClientCredentialsGrant:
		return true
	}
	return false
}
