package credentials

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
)

// IdentityFromIssuer fills in the identity's token endpoint via OIDC
// discovery against the issuer's well-known configuration. The rest of the
// identity is returned unchanged.
func IdentityFromIssuer(ctx context.Context, issuer string, identity ClientIdentity) (ClientIdentity, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return ClientIdentity{}, errors.Wrap(err, "IdentityFromIssuer NewProvider")
	}
	identity.AuthURL = provider.Endpoint().TokenURL
	return identity, nil
}
