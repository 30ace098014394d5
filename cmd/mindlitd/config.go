package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig is the env-backed runtime configuration. It satisfies the auth
// Config interface consumed by the authenticator and token service.
type AppConfig struct {
	SigningKey      string
	ContextKey      string
	TokenExpiration int
	AuthScheme      string
	TokenLookup     string
	Issuer          string
	Audience        []string

	DSN          string
	ListenAddr   string
	OpenAIKey    string
	OpenAIModel  string
	OpenAIAPIURL string
}

func LoadConfig() *AppConfig {
	// Missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	return &AppConfig{
		SigningKey:      envOr("MINDLIT_SIGNING_KEY", ""),
		ContextKey:      envOr("MINDLIT_CONTEXT_KEY", "user"),
		TokenExpiration: envIntOr("MINDLIT_TOKEN_EXPIRATION_HOURS", 24),
		AuthScheme:      envOr("MINDLIT_AUTH_SCHEME", "Bearer"),
		TokenLookup:     envOr("MINDLIT_TOKEN_LOOKUP", "header:Authorization"),
		Issuer:          envOr("MINDLIT_ISSUER", "mindlit"),
		Audience:        []string{envOr("MINDLIT_AUDIENCE", "mindlit")},
		DSN:             envOr("MINDLIT_DSN", "file:mindlit.db?cache=shared"),
		ListenAddr:      envOr("MINDLIT_LISTEN_ADDR", ":9090"),
		OpenAIKey:       envOr("OPENAI_API_KEY", ""),
		OpenAIModel:     envOr("OPENAI_MODEL", ""),
		OpenAIAPIURL:    envOr("OPENAI_API_URL", ""),
	}
}

func (c *AppConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *AppConfig) GetContextKey() string {
	return c.ContextKey
}

func (c *AppConfig) GetTokenExpiration() int {
	return c.TokenExpiration
}

func (c *AppConfig) GetAuthScheme() string {
	return c.AuthScheme
}

func (c *AppConfig) GetTokenLookup() string {
	return c.TokenLookup
}

func (c *AppConfig) GetIssuer() string {
	return c.Issuer
}

func (c *AppConfig) GetAudience() []string {
	return c.Audience
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
