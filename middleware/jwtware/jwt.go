// Package jwtware implements the bearer-token gate that sits in front of
// protected routes: it extracts the credential from the Authorization header,
// verifies it through a TokenValidator, and stores the resulting claims in the
// request locals for downstream handlers.
//
// The gate is stateless and idempotent: verifying the same token twice yields
// the same result until the token expires.
package jwtware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	defaultTokenLookup = "header:" + fiber.HeaderAuthorization

	// ErrJWTMissingOrMalformed is returned when no usable credential is
	// present in the configured lookup location.
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the root package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for structured claims without import cycles.
// This mirrors the AuthClaims interface from the root package.
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	Expires() time.Time
	IssuedAt() time.Time
}

type Config struct {
	// Filter defines a function to skip the middleware
	Filter func(*fiber.Ctx) bool

	// SuccessHandler runs after the token has been validated; defaults to Next
	SuccessHandler fiber.Handler

	// ErrorHandler converts extraction/validation failures into a response.
	// The default presents every validation failure identically so the
	// response never reveals whether a token was malformed, forged, or
	// expired.
	ErrorHandler func(*fiber.Ctx, error) error

	// ContextKey is the locals key the verified claims are stored under
	ContextKey string

	// TokenLookup is a string in the form "header:<name>"
	TokenLookup string

	// AuthScheme is the scheme prefix expected in the header, e.g. "Bearer"
	AuthScheme string

	// TokenValidator is required for token validation
	TokenValidator TokenValidator
}

// New returns the gate as a fiber middleware
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractRawToken(c, cfg)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		return cfg.SuccessHandler(c)
	}
}

// ExtractRawToken pulls the raw credential from the configured location
func ExtractRawToken(c *fiber.Ctx, cfg Config) (string, error) {
	parts := strings.SplitN(cfg.TokenLookup, ":", 2)
	if len(parts) != 2 || parts[0] != "header" {
		return "", ErrJWTMissingOrMalformed
	}

	value := c.Get(parts[1])
	if value == "" {
		return "", ErrJWTMissingOrMalformed
	}

	if cfg.AuthScheme == "" {
		return value, nil
	}

	scheme := cfg.AuthScheme + " "
	if len(value) <= len(scheme) || !strings.EqualFold(value[:len(scheme)], scheme) {
		return "", ErrJWTMissingOrMalformed
	}

	token := strings.TrimSpace(value[len(scheme):])
	if token == "" {
		return "", ErrJWTMissingOrMalformed
	}

	return token, nil
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// DefaultErrorHandler rejects with a stable body. A missing credential gets
// its own code; every failed verification collapses into one.
func DefaultErrorHandler(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrJWTMissingOrMalformed) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
			"code":  "CREDENTIAL_REQUIRED",
		})
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "invalid or expired credential",
		"code":  "INVALID_CREDENTIAL",
	})
}
