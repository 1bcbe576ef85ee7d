package token

import (
	"fmt"

	"github.com/jrsteele09/go-oauth-client/oauthmodel"
)

// AcquisitionError reports a failed token acquisition: a transport or
// status failure at the token endpoint, a malformed response, a missing
// access_token, or a local signing/credentials-file failure for the
// service-account flow.
type AcquisitionError struct {
	ClientID  string
	GrantType oauthmodel.GrantType
	Err       error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("token acquisition failed for client %q (%s): %v", e.ClientID, e.GrantType, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
