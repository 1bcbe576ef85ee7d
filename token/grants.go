package token

import (
	"github.com/jrsteele09/go-oauth-client/credentials"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/pkg/errors"
)

// authPlacement decides where client credentials travel in a token request.
type authPlacement int

const (
	// authBasicHeader puts id:secret in an HTTP Basic authorization header.
	authBasicHeader authPlacement = iota
	// authInBody puts client_id and client_secret in the form body.
	authInBody
	// authNone sends no client credentials (the assertion carries identity).
	authNone
)

const (
	scopeFieldScope    = "scope"
	scopeFieldResource = "resource"
)

// grantPolicy describes, per grant type, how credentials are placed, which
// form field the scope travels in, and the grant-specific body fields.
// The table replaces per-call-site conditionals.
type grantPolicy struct {
	scopeField string
	placement  func(identity credentials.ClientIdentity) authPlacement
	build      func(a *Acquirer, identity credentials.ClientIdentity, opts AcquireOptions) (oauthmodel.TokenRequest, error)
}

// genericPlacement honours the identity's CredentialsInBody option;
// Basic auth is the default for generic grants.
func genericPlacement(identity credentials.ClientIdentity) authPlacement {
	if identity.CredentialsInBody {
		return authInBody
	}
	return authBasicHeader
}

func bodyPlacement(credentials.ClientIdentity) authPlacement { return authInBody }
func nonePlacement(credentials.ClientIdentity) authPlacement { return authNone }

var grantPolicies = map[oauthmodel.GrantType]grantPolicy{
	oauthmodel.ClientCredentialsGrant: {
		scopeField: scopeFieldScope,
		placement:  genericPlacement,
		build: func(_ *Acquirer, identity credentials.ClientIdentity, _ AcquireOptions) (oauthmodel.TokenRequest, error) {
			return oauthmodel.TokenRequest{GrantType: string(identity.GrantType)}, nil
		},
	},
	oauthmodel.PasswordGrant: {
		scopeField: scopeFieldScope,
		placement:  genericPlacement,
		build: func(_ *Acquirer, identity credentials.ClientIdentity, _ AcquireOptions) (oauthmodel.TokenRequest, error) {
			// The identity's id and secret double as the resource owner's
			// username and password.
			return oauthmodel.TokenRequest{
				GrantType: string(identity.GrantType),
				Username:  identity.ClientID,
				Password:  identity.ClientSecret,
			}, nil
		},
	},
	oauthmodel.RefreshTokenGrant: {
		scopeField: scopeFieldScope,
		placement:  genericPlacement,
		build: func(_ *Acquirer, identity credentials.ClientIdentity, opts AcquireOptions) (oauthmodel.TokenRequest, error) {
			if opts.PriorRefreshToken == "" {
				return oauthmodel.TokenRequest{}, errors.New("refresh_token grant requires a prior refresh token")
			}
			return oauthmodel.TokenRequest{
				GrantType:    string(identity.GrantType),
				RefreshToken: opts.PriorRefreshToken,
			}, nil
		},
	},
	oauthmodel.AzureClientCredentialsGrant: {
		scopeField: scopeFieldResource,
		placement:  bodyPlacement,
		build: func(_ *Acquirer, _ credentials.ClientIdentity, _ AcquireOptions) (oauthmodel.TokenRequest, error) {
			// Azure AD speaks plain client_credentials on the wire.
			return oauthmodel.TokenRequest{GrantType: string(oauthmodel.ClientCredentialsGrant)}, nil
		},
	},
	oauthmodel.GCPClientCredentialsGrant: {
		scopeField: scopeFieldResource,
		placement:  nonePlacement,
		build: func(a *Acquirer, identity credentials.ClientIdentity, _ AcquireOptions) (oauthmodel.TokenRequest, error) {
			account, err := LoadServiceAccount(identity.CredentialsFile)
			if err != nil {
				return oauthmodel.TokenRequest{}, err
			}
			assertion, err := a.signer.Sign(a.assertionClaims(account, identity.Scope, identity.Subject), account.PrivateKey)
			if err != nil {
				return oauthmodel.TokenRequest{}, errors.Wrap(err, "failed to sign service account assertion")
			}
			return oauthmodel.TokenRequest{
				GrantType: oauthmodel.JWTBearerGrantType,
				Assertion: assertion,
			}, nil
		},
	},
}
