package token

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// GoogleTokenURL is the fixed Google token endpoint used as the assertion
// audience, and as the request target when the identity names no endpoint.
const GoogleTokenURL = "https://oauth2.googleapis.com/token"

// ServiceAccount is the subset of a GCP service-account credentials file
// the JWT-bearer flow needs.
type ServiceAccount struct {
	Type         string `json:"type,omitempty"`
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id,omitempty"`
	TokenURI     string `json:"token_uri,omitempty"`
}

// LoadServiceAccount reads and validates a service-account credentials file.
// A file missing client_email or private_key fails here, before any network
// exchange is attempted.
func LoadServiceAccount(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "LoadServiceAccount ReadFile")
	}

	var account ServiceAccount
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, errors.Wrap(err, "LoadServiceAccount Unmarshal")
	}

	if strings.TrimSpace(account.ClientEmail) == "" {
		return nil, errors.Errorf("credentials file %q missing client_email", path)
	}
	if strings.TrimSpace(account.PrivateKey) == "" {
		return nil, errors.Errorf("credentials file %q missing private_key", path)
	}
	return &account, nil
}

// assertionClaims builds the claims set for a service-account assertion:
// iss is the account email, aud the fixed Google token endpoint, and the
// validity window runs from now for the acquirer's assertion window.
func (a *Acquirer) assertionClaims(account *ServiceAccount, scope, subject string) jwt.MapClaims {
	now := a.nowFunc()
	claims := jwt.MapClaims{
		"iss": account.ClientEmail,
		"aud": GoogleTokenURL,
		"iat": now.Unix(),
		"exp": now.Add(a.assertionWindow).Unix(),
		"jti": uuid.New().String(),
	}
	if scope != "" {
		claims["scope"] = scope
	}
	if subject != "" {
		claims["sub"] = subject
	}
	return claims
}
