package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-oauth-client/client"
	"github.com/jrsteele09/go-oauth-client/credentials"
	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/jrsteele09/go-oauth-client/token"
	"github.com/jrsteele09/go-oauth-client/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error fetching token")
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	identity, err := buildIdentity(c)
	if err != nil {
		return err
	}

	oauthClient, err := client.New(identity,
		client.WithCache(credentials.New(
			credentials.WithDefaultTTL(c.GetDefaultTokenTTL()),
			credentials.WithLogger(log.Logger),
		)),
		client.WithAcquirer(token.New(
			token.WithTransport(transport.New(transport.WithTimeout(c.GetRequestTimeout()))),
			token.WithLogger(log.Logger),
		)),
		client.WithLogger(log.Logger),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.GetRequestTimeout())
	defer cancel()

	credential, err := oauthClient.Token(ctx)
	if err != nil {
		return err
	}
	return printCredential(credential)
}

func buildIdentity(c config.Config) (credentials.ClientIdentity, error) {
	secret, err := credentials.ResolveClientSecret(c.GetClientSecret())
	if err != nil {
		return credentials.ClientIdentity{}, err
	}

	return credentials.ClientIdentity{
		GrantType:         oauthmodel.GrantType(c.GetGrantType()),
		AuthURL:           c.GetAuthURL(),
		ClientID:          c.GetClientID(),
		ClientSecret:      secret,
		CredentialsFile:   c.GetCredentialsFile(),
		Scope:             c.GetScope(),
		Subject:           c.GetSubject(),
		CredentialsInBody: c.GetCredentialsInBody(),
	}, nil
}

func printCredential(credential credentials.Credential) error {
	output := struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresAt   string `json:"expires_at,omitempty"`
	}{
		AccessToken: credential.AccessToken,
		TokenType:   string(credential.TokenType),
	}
	if credential.HasDeclaredExpiry() {
		output.ExpiresAt = time.Unix(credential.ExpiresAt, 0).UTC().Format(time.RFC3339)
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
