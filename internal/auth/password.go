package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/arcwise/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or passphrase")
	ErrWeakPassphrase     = errors.New("passphrase must be at least 8 characters")
)

// PassphraseAuthenticator lets any roster member join with the session's
// shared passphrase. Only the bcrypt hash of the passphrase is kept.
type PassphraseAuthenticator struct {
	roster *models.Roster
	hash   []byte
}

// NewPassphraseAuthenticator hashes passphrase for later comparison.
func NewPassphraseAuthenticator(roster *models.Roster, passphrase string) (*PassphraseAuthenticator, error) {
	if err := ValidateCredential(passphrase); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash passphrase: %w", err)
	}

	return &PassphraseAuthenticator{roster: roster, hash: hash}, nil
}

// ValidateCredential checks if the passphrase meets minimum requirements.
func ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassphrase
	}
	return nil
}

// Authenticate returns the trimmed name if it is on the roster and the
// passphrase matches. Both failures look the same to the caller.
func (a *PassphraseAuthenticator) Authenticate(ctx context.Context, name, credential string) (string, error) {
	name = strings.TrimSpace(name)
	if !a.roster.Contains(name) {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(credential)); err != nil {
		return "", ErrInvalidCredentials
	}

	return name, nil
}
