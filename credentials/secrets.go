package credentials

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	envSecretPrefix  = "env:"
	fileSecretPrefix = "file:"
)

// ResolveClientSecret resolves a client-secret reference to its value.
// "env:NAME" reads the environment variable NAME, "file:/path" reads the
// file at /path (trimming trailing whitespace), anything else is taken as
// the literal secret. Keeps secrets out of static configuration.
func ResolveClientSecret(secret string) (string, error) {
	switch {
	case strings.HasPrefix(secret, envSecretPrefix):
		name := strings.TrimPrefix(secret, envSecretPrefix)
		value, ok := os.LookupEnv(name)
		if !ok {
			return "", errors.Errorf("client secret environment variable %q not set", name)
		}
		return value, nil
	case strings.HasPrefix(secret, fileSecretPrefix):
		path := strings.TrimPrefix(secret, fileSecretPrefix)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(err, "ResolveClientSecret ReadFile")
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	default:
		return secret, nil
	}
}
