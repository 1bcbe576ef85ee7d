package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer is an interface for signing JWT assertion claims with a private
// key supplied per call (service-account flows carry their key in the
// credentials file, not in the signer).
type Signer interface {
	// Sign creates a signed JWT from claims using the PEM-encoded private key
	Sign(claims jwt.MapClaims, privateKeyPEM string) (string, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwt.SigningMethod
}

// RS256Signer implements Signer using RSA-SHA256, the algorithm Google
// requires for service-account assertions.
type RS256Signer struct{}

// NewRS256Signer creates a new RS256 assertion signer
func NewRS256Signer() *RS256Signer {
	return &RS256Signer{}
}

func (s *RS256Signer) Sign(claims jwt.MapClaims, privateKeyPEM string) (string, error) {
	key, err := LoadRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign assertion with RSA key")
	}
	return signedToken, nil
}

func (s *RS256Signer) GetSigningMethod() jwt.SigningMethod {
	return jwt.SigningMethodRS256
}
