package mindlit

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, Identity, error)
	Register(ctx context.Context, username, email, password string) (string, Identity, error)
	IdentityFromSubject(ctx context.Context, subject string) (Identity, error)
	SessionFromToken(token string) (AuthClaims, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetContextKey() string
	GetTokenExpiration() int
	GetAuthScheme() string
	GetTokenLookup() string
	GetIssuer() string
	GetAudience() []string
}

// IdentityProvider ensure we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByID(ctx context.Context, id string) (Identity, error)
}

// AccountRegisterer is the interface we need to handle new user registrations
type AccountRegisterer interface {
	RegisterIdentity(ctx context.Context, username, email, password string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService issues and verifies session tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims represents verified session token claims
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	Expires() time.Time
	IssuedAt() time.Time
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
