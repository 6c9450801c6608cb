package auth

import (
	"context"
)

// Authenticator decides whether a caller may act as a roster participant.
// This abstraction allows swapping the shared passphrase for per-person
// credentials without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the credential for the named participant and
	// returns the canonical participant name.
	Authenticate(ctx context.Context, name, credential string) (string, error)
}
