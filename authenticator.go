package mindlit

import (
	"context"
	"reflect"
)

type Auther struct {
	provider     IdentityProvider
	registry     AccountRegisterer
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, registry AccountRegisterer, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		registry:     registry,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService overrides the token service, mostly useful in tests
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	s.tokenService = ts
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and issues a session token
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		return "", nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", nil, ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error: %v", err)
		return "", nil, err
	}

	return token, identity, nil
}

// Register creates the identity and issues a session token for it
func (s *Auther) Register(ctx context.Context, username, email, password string) (string, Identity, error) {
	identity, err := s.registry.RegisterIdentity(ctx, username, email, password)
	if err != nil {
		s.logger.Error("Register identity error: %v", err)
		return "", nil, err
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Register token generation error: %v", err)
		return "", nil, err
	}

	return token, identity, nil
}

// IdentityFromSubject resolves a verified token subject to an identity
func (s *Auther) IdentityFromSubject(ctx context.Context, subject string) (Identity, error) {
	return s.provider.FindIdentityByID(ctx, subject)
}

// SessionFromToken validates a raw token and returns its claims
func (s *Auther) SessionFromToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed: %v", err)
		return nil, err
	}
	return claims, nil
}

var _ Authenticator = (*Auther)(nil)
