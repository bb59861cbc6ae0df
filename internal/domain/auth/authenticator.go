package auth

import (
	"context"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks a username and password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// StaticAuthenticator accepts the single configured operator account.
type StaticAuthenticator struct {
	username     string
	passwordHash []byte
}

func NewStaticAuthenticator(username, password string) (*StaticAuthenticator, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &StaticAuthenticator{username: username, passwordHash: []byte(hash)}, nil
}

// NewStaticAuthenticatorFromHash uses an existing bcrypt hash.
func NewStaticAuthenticatorFromHash(username, hash string) *StaticAuthenticator {
	return &StaticAuthenticator{username: username, passwordHash: []byte(hash)}
}

func (a *StaticAuthenticator) Authenticate(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
