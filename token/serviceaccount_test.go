package token_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/stretchr/testify/require"
)

func TestLoadServiceAccount(t *testing.T) {
	path, _ := writeServiceAccountFile(t, nil)

	account, err := token.LoadServiceAccount(path)
	require.NoError(t, err)
	require.Equal(t, "svc@project.iam.gserviceaccount.com", account.ClientEmail)
	require.NotEmpty(t, account.PrivateKey)
}

func TestLoadServiceAccountMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{name: "missing client_email", missing: "client_email"},
		{name: "missing private_key", missing: "private_key"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path, _ := writeServiceAccountFile(t, map[string]any{tc.missing: nil})
			_, err := token.LoadServiceAccount(path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.missing)
		})
	}
}

func TestLoadServiceAccountBadFile(t *testing.T) {
	_, err := token.LoadServiceAccount(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err = token.LoadServiceAccount(path)
	require.Error(t, err)
}

func TestRS256SignerRoundTrip(t *testing.T) {
	path, key := writeServiceAccountFile(t, nil)
	account, err := token.LoadServiceAccount(path)
	require.NoError(t, err)

	signer := token.NewRS256Signer()
	require.Equal(t, jwt.SigningMethodRS256, signer.GetSigningMethod())

	signed, err := signer.Sign(jwt.MapClaims{"iss": account.ClientEmail}, account.PrivateKey)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
}

func TestRS256SignerBadKey(t *testing.T) {
	signer := token.NewRS256Signer()
	_, err := signer.Sign(jwt.MapClaims{"iss": "x"}, "not a pem key")
	require.Error(t, err)
}
