package credentials_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-oauth-client/credentials"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromIssuer(t *testing.T) {
	var issuer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/oauth/authorize",
			"token_endpoint":         issuer + "/oauth/token",
			"jwks_uri":               issuer + "/.well-known/jwks.json",
		})
	}))
	defer server.Close()
	issuer = server.URL

	identity, err := credentials.IdentityFromIssuer(context.Background(), issuer, credentials.ClientIdentity{
		ClientID:     "test-client-1",
		ClientSecret: "test-secret-1",
	})
	require.NoError(t, err)
	require.Equal(t, issuer+"/oauth/token", identity.AuthURL)
	require.Equal(t, "test-client-1", identity.ClientID)
}

func TestIdentityFromIssuerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	issuer := server.URL
	server.Close()

	_, err := credentials.IdentityFromIssuer(context.Background(), issuer, credentials.ClientIdentity{})
	require.Error(t, err)
}
