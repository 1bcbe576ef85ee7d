package oauthmodel

import "errors"

var (
	ErrMissingAccessToken       = errors.New("token response missing access_token")
	ErrUnsupportedGrantType     = errors.New("unsupported grant type")
	ErrMissingClientCredentials = errors.New("missing client credentials")
	ErrMissingCredentialsFile   = errors.New("missing service account credentials file")
)
