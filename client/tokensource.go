package client

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// TokenSource adapts the client to the golang.org/x/oauth2 TokenSource
// interface, so the cached credential can feed oauth2.NewClient and other
// ecosystem consumers. The source refreshes through the shared cache like
// any other caller.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, client: c}
}

type tokenSource struct {
	ctx    context.Context
	client *Client
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	credential, err := ts.client.Token(ts.ctx)
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
		TokenType:    string(credential.TokenType),
	}
	if credential.HasDeclaredExpiry() {
		tok.Expiry = time.Unix(credential.ExpiresAt, 0)
	}
	return tok, nil
}
