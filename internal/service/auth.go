package service

import (
	"context"
	"crypto/subtle"
)

// CredentialVerifier decides whether a login or a session token is valid.
// StaticCredentials is the only implementation today; a hashed-password or
// session-backed one can replace it without touching the handlers.
type CredentialVerifier interface {
	// VerifyLogin returns the token to hand out, or ErrInvalidCredentials.
	VerifyLogin(ctx context.Context, username, password string) (string, error)
	// VerifyToken returns nil for a valid token, or ErrInvalidToken.
	VerifyToken(ctx context.Context, token string) error
}

// StaticCredentials accepts exactly one username/password pair and one token,
// all fixed at startup.
type StaticCredentials struct {
	Username string
	Password string
	Token    string
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// VerifyLogin compares both values exactly and case-sensitively. Nothing is
// accepted while the configured username or password is empty.
func (c StaticCredentials) VerifyLogin(_ context.Context, username, password string) (string, error) {
	if c.Username == "" || c.Password == "" {
		return "", ErrInvalidCredentials
	}
	userOK := equal(username, c.Username)
	passOK := equal(password, c.Password)
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}
	return c.Token, nil
}

// VerifyToken compares token exactly and case-sensitively.
func (c StaticCredentials) VerifyToken(_ context.Context, token string) error {
	if c.Token == "" || !equal(token, c.Token) {
		return ErrInvalidToken
	}
	return nil
}

// AuthService implements login and token checks on top of a CredentialVerifier.
type AuthService struct {
	verifier CredentialVerifier
}

// NewAuthService constructs a new AuthService using the provided verifier.
func NewAuthService(verifier CredentialVerifier) *AuthService {
	return &AuthService{verifier: verifier}
}

// Login returns the session token for valid credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.verifier.VerifyLogin(ctx, username, password)
}

// CheckToken returns nil when token is accepted.
func (s *AuthService) CheckToken(ctx context.Context, token string) error {
	return s.verifier.VerifyToken(ctx, token)
}
