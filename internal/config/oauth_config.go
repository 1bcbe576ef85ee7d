package config

import "time"

type OAuthConfig interface {
	GetAuthURL() string
	GetGrantType() string
	GetClientID() string
	GetClientSecret() string
	GetCredentialsFile() string
	GetScope() string
	GetSubject() string
	GetCredentialsInBody() bool
	GetDefaultTokenTTL() time.Duration
	GetRequestTimeout() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetAuthURL() string {
	return GetEnv("AUTH_URL", "")
}

func (OAuth) GetGrantType() string {
	return GetEnv("GRANT_TYPE", "client_credentials")
}

func (OAuth) GetClientID() string {
	return GetEnv("CLIENT_ID", "")
}

// GetClientSecret returns the raw secret reference; "env:" and "file:"
// indirections are resolved by credentials.ResolveClientSecret.
func (OAuth) GetClientSecret() string {
	return GetEnv("CLIENT_SECRET", "")
}

func (OAuth) GetCredentialsFile() string {
	return GetEnv("CREDENTIALS_FILE", "")
}

func (OAuth) GetScope() string {
	return GetEnv("SCOPE", "")
}

func (OAuth) GetSubject() string {
	return GetEnv("SUBJECT", "")
}

func (OAuth) GetCredentialsInBody() bool {
	return GetEnv("CREDENTIALS_IN_BODY", "false") == "true"
}

func (OAuth) GetDefaultTokenTTL() time.Duration {
	return 1 * time.Hour
}

func (OAuth) GetRequestTimeout() time.Duration {
	return 30 * time.Second
}
