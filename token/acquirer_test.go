package token_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-oauth-client/credentials"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/jrsteele09/go-oauth-client/transport"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
	testScope        = "api.read"
	testNowEpoch     = int64(1700000000)
)

// tokenEndpoint is a fake authorization server capturing the last token request.
type tokenEndpoint struct {
	server *httptest.Server

	status       int
	responseBody any

	calls      atomic.Int32
	gotAuth    string
	gotForm    url.Values
	gotContent string
	gotMethod  string
}

func newTokenEndpoint(t *testing.T) *tokenEndpoint {
	t.Helper()

	e := &tokenEndpoint{
		status: http.StatusOK,
		responseBody: map[string]any{
			"access_token": "abc",
			"token_type":   "bearer",
			"expires_in":   100,
		},
	}
	e.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.calls.Add(1)
		e.gotMethod = r.Method
		e.gotAuth = r.Header.Get("Authorization")
		e.gotContent = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		e.gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(e.status)
		require.NoError(t, json.NewEncoder(w).Encode(e.responseBody))
	}))
	t.Cleanup(e.server.Close)
	return e
}

func (e *tokenEndpoint) identity(grantType oauthmodel.GrantType) credentials.ClientIdentity {
	return credentials.ClientIdentity{
		GrantType:    grantType,
		AuthURL:      e.server.URL + "/oauth/token",
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Scope:        testScope,
	}
}

func newAcquirer(options ...token.Option) *token.Acquirer {
	options = append([]token.Option{
		token.WithNowFunc(func() time.Time { return time.Unix(testNowEpoch, 0) }),
	}, options...)
	return token.New(options...)
}

func TestAcquireClientCredentialsBasicAuth(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	credential, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.ClientCredentialsGrant), token.AcquireOptions{})
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, endpoint.gotMethod)
	require.Equal(t, "application/x-www-form-urlencoded", endpoint.gotContent)

	expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(testClientID+":"+testClientSecret))
	require.Equal(t, expectedAuth, endpoint.gotAuth)

	require.Equal(t, "client_credentials", endpoint.gotForm.Get("grant_type"))
	require.Equal(t, testScope, endpoint.gotForm.Get("scope"))
	require.Empty(t, endpoint.gotForm.Get("client_id"))
	require.Empty(t, endpoint.gotForm.Get("client_secret"))
	require.Empty(t, endpoint.gotForm.Get("resource"))

	require.Equal(t, "abc", credential.AccessToken)
	require.Equal(t, credentials.TokenTypeBearer, credential.TokenType)
	require.Equal(t, testNowEpoch+100, credential.ExpiresAt)
}

func TestAcquireClientCredentialsInBody(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	identity := endpoint.identity(oauthmodel.ClientCredentialsGrant)
	identity.CredentialsInBody = true

	_, err := acquirer.Acquire(context.Background(), identity, token.AcquireOptions{})
	require.NoError(t, err)

	require.Empty(t, endpoint.gotAuth)
	require.Equal(t, testClientID, endpoint.gotForm.Get("client_id"))
	require.Equal(t, testClientSecret, endpoint.gotForm.Get("client_secret"))
}

func TestAcquirePasswordGrant(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	_, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.PasswordGrant), token.AcquireOptions{})
	require.NoError(t, err)

	require.Equal(t, "password", endpoint.gotForm.Get("grant_type"))
	require.Equal(t, testClientID, endpoint.gotForm.Get("username"))
	require.Equal(t, testClientSecret, endpoint.gotForm.Get("password"))
	require.NotEmpty(t, endpoint.gotAuth)
}

func TestAcquireRefreshTokenGrant(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	_, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.RefreshTokenGrant), token.AcquireOptions{
		PriorRefreshToken: "refresh-1",
	})
	require.NoError(t, err)
	require.Equal(t, "refresh_token", endpoint.gotForm.Get("grant_type"))
	require.Equal(t, "refresh-1", endpoint.gotForm.Get("refresh_token"))
}

func TestAcquireRefreshTokenGrantWithoutPriorToken(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	_, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.RefreshTokenGrant), token.AcquireOptions{})

	var acquisitionErr *token.AcquisitionError
	require.ErrorAs(t, err, &acquisitionErr)
	require.Equal(t, int32(0), endpoint.calls.Load())
}

func TestAcquireRefreshTokenCarryOver(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	endpoint.responseBody = map[string]any{
		"access_token": "abc",
		"token_type":   "bearer",
		// no refresh_token in the response
	}
	acquirer := newAcquirer()

	credential, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.ClientCredentialsGrant), token.AcquireOptions{
		PriorRefreshToken: "refresh-1",
	})
	require.NoError(t, err)
	require.Equal(t, "refresh-1", credential.RefreshToken)

	// A refresh token in the response wins over the carry-over.
	endpoint.responseBody = map[string]any{
		"access_token":  "abc",
		"token_type":    "bearer",
		"refresh_token": "refresh-2",
	}
	credential, err = acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.ClientCredentialsGrant), token.AcquireOptions{
		PriorRefreshToken: "refresh-1",
	})
	require.NoError(t, err)
	require.Equal(t, "refresh-2", credential.RefreshToken)
}

func TestAcquireAzureClientCredentials(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	_, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.AzureClientCredentialsGrant), token.AcquireOptions{})
	require.NoError(t, err)

	// Azure speaks plain client_credentials, credentials always in the body,
	// scope carried as "resource".
	require.Empty(t, endpoint.gotAuth)
	require.Equal(t, "client_credentials", endpoint.gotForm.Get("grant_type"))
	require.Equal(t, testClientID, endpoint.gotForm.Get("client_id"))
	require.Equal(t, testClientSecret, endpoint.gotForm.Get("client_secret"))
	require.Equal(t, testScope, endpoint.gotForm.Get("resource"))
	require.Empty(t, endpoint.gotForm.Get("scope"))
}

func TestAcquireScopeOmittedWhenAbsent(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	identity := endpoint.identity(oauthmodel.ClientCredentialsGrant)
	identity.Scope = ""

	_, err := acquirer.Acquire(context.Background(), identity, token.AcquireOptions{})
	require.NoError(t, err)
	_, present := endpoint.gotForm["scope"]
	require.False(t, present)
}

func TestAcquireTokenTypeNormalization(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	endpoint.responseBody = map[string]any{"access_token": "abc", "token_type": "Bearer"}
	credential, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.ClientCredentialsGrant), token.AcquireOptions{})
	require.NoError(t, err)
	require.Equal(t, credentials.TokenTypeBearer, credential.TokenType)

	endpoint.responseBody = map[string]any{"access_token": "abc", "token_type": "mac"}
	credential, err = acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.ClientCredentialsGrant), token.AcquireOptions{})
	require.NoError(t, err)
	require.Equal(t, credentials.TokenTypeUnsupported, credential.TokenType)
}

func TestAcquireNoDeclaredExpiry(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	endpoint.responseBody = map[string]any{"access_token": "abc", "token_type": "bearer"}
	acquirer := newAcquirer()

	credential, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.ClientCredentialsGrant), token.AcquireOptions{})
	require.NoError(t, err)
	require.False(t, credential.HasDeclaredExpiry())
}

func TestAcquireMissingAccessToken(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	endpoint.responseBody = map[string]any{"token_type": "bearer"}
	acquirer := newAcquirer()

	_, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.ClientCredentialsGrant), token.AcquireOptions{})

	var acquisitionErr *token.AcquisitionError
	require.ErrorAs(t, err, &acquisitionErr)
	require.ErrorIs(t, err, oauthmodel.ErrMissingAccessToken)
	require.Equal(t, testClientID, acquisitionErr.ClientID)
}

func TestAcquireErrorStatus(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	endpoint.status = http.StatusBadRequest
	endpoint.responseBody = map[string]any{"error": "invalid_client"}
	acquirer := newAcquirer()

	_, err := acquirer.Acquire(context.Background(), endpoint.identity(oauthmodel.ClientCredentialsGrant), token.AcquireOptions{})

	var statusErr *transport.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestAcquireUnsupportedGrantType(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	acquirer := newAcquirer()

	identity := endpoint.identity("implicit")
	_, err := acquirer.Acquire(context.Background(), identity, token.AcquireOptions{})
	require.ErrorIs(t, err, oauthmodel.ErrUnsupportedGrantType)
	require.Equal(t, int32(0), endpoint.calls.Load())
}

// writeServiceAccountFile writes a GCP-style credentials file and returns
// its path and the signing key.
func writeServiceAccountFile(t *testing.T, overrides map[string]any) (string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	fields := map[string]any{
		"type":         "service_account",
		"client_email": "svc@project.iam.gserviceaccount.com",
		"private_key":  token.ExportRSAPrivateKeyPEM(key),
		"token_uri":    token.GoogleTokenURL,
	}
	for k, v := range overrides {
		if v == nil {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "service-account.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, key
}

func TestAcquireGCPServiceAccount(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	path, key := writeServiceAccountFile(t, nil)

	acquirer := newAcquirer()
	identity := credentials.ClientIdentity{
		GrantType:       oauthmodel.GCPClientCredentialsGrant,
		AuthURL:         endpoint.server.URL + "/token",
		CredentialsFile: path,
		Scope:           testScope,
		Subject:         "user@example.com",
	}

	credential, err := acquirer.Acquire(context.Background(), identity, token.AcquireOptions{})
	require.NoError(t, err)
	require.Equal(t, "abc", credential.AccessToken)

	require.Empty(t, endpoint.gotAuth)
	require.Equal(t, oauthmodel.JWTBearerGrantType, endpoint.gotForm.Get("grant_type"))
	require.Equal(t, testScope, endpoint.gotForm.Get("resource"))

	assertion := endpoint.gotForm.Get("assertion")
	require.NotEmpty(t, assertion)

	parsed, err := jwt.Parse(assertion, func(*jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithTimeFunc(func() time.Time { return time.Unix(testNowEpoch, 0) }))
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "svc@project.iam.gserviceaccount.com", claims["iss"])
	require.Equal(t, token.GoogleTokenURL, claims["aud"])
	require.Equal(t, testScope, claims["scope"])
	require.Equal(t, "user@example.com", claims["sub"])
	require.NotEmpty(t, claims["jti"])
	require.Equal(t, float64(testNowEpoch), claims["iat"])
	require.Equal(t, float64(testNowEpoch+300), claims["exp"]) // default five minute window
}

func TestAcquireGCPMissingPrivateKey(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	path, _ := writeServiceAccountFile(t, map[string]any{"private_key": nil})

	acquirer := newAcquirer()
	identity := credentials.ClientIdentity{
		GrantType:       oauthmodel.GCPClientCredentialsGrant,
		AuthURL:         endpoint.server.URL + "/token",
		CredentialsFile: path,
	}

	_, err := acquirer.Acquire(context.Background(), identity, token.AcquireOptions{})

	var acquisitionErr *token.AcquisitionError
	require.ErrorAs(t, err, &acquisitionErr)
	require.Contains(t, err.Error(), "private_key")
	// Fails before any network exchange.
	require.Equal(t, int32(0), endpoint.calls.Load())
}
