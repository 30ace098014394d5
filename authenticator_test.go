package mindlit_test

import (
	"context"
	"testing"

	"github.com/mindlit/mindlit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider implements mindlit.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (mindlit.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(mindlit.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByID(ctx context.Context, id string) (mindlit.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(mindlit.Identity), args.Error(1)
}

// MockAccountRegisterer implements mindlit.AccountRegisterer
type MockAccountRegisterer struct {
	mock.Mock
}

func (m *MockAccountRegisterer) RegisterIdentity(ctx context.Context, username, email, password string) (mindlit.Identity, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(mindlit.Identity), args.Error(1)
}

type testConfig struct{}

func (testConfig) GetSigningKey() string   { return "test-signing-key" }
func (testConfig) GetContextKey() string   { return "user" }
func (testConfig) GetTokenExpiration() int { return 24 }
func (testConfig) GetAuthScheme() string   { return "Bearer" }
func (testConfig) GetTokenLookup() string  { return "header:Authorization" }
func (testConfig) GetIssuer() string       { return "test-issuer" }
func (testConfig) GetAudience() []string   { return []string{"test-audience"} }

func newMockIdentity(id, username, email string) *MockIdentity {
	identity := &MockIdentity{}
	identity.On("ID").Return(id)
	identity.On("Username").Return(username)
	identity.On("Email").Return(email)
	return identity
}

func TestAuthenticator_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login issues a token", func(t *testing.T) {
		identity := newMockIdentity("user-123", "reader", "reader@example.com")

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "reader@example.com", "secret-password").
			Return(identity, nil)

		auther := mindlit.NewAuthenticator(provider, &MockAccountRegisterer{}, testConfig{})

		token, got, err := auther.Login(ctx, "reader@example.com", "secret-password")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "user-123", got.ID())

		claims, err := auther.SessionFromToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "reader", claims.Username())

		provider.AssertExpectations(t)
	})

	t.Run("verification failure never issues a token", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "reader@example.com", "wrong").
			Return(nil, mindlit.ErrMismatchedHashAndPassword)

		auther := mindlit.NewAuthenticator(provider, &MockAccountRegisterer{}, testConfig{})

		token, _, err := auther.Login(ctx, "reader@example.com", "wrong")
		assert.ErrorIs(t, err, mindlit.ErrMismatchedHashAndPassword)
		assert.Empty(t, token)
	})
}

func TestAuthenticator_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration issues a token", func(t *testing.T) {
		identity := newMockIdentity("user-456", "writer", "writer@example.com")

		registry := &MockAccountRegisterer{}
		registry.On("RegisterIdentity", ctx, "writer", "writer@example.com", "secret-password").
			Return(identity, nil)

		auther := mindlit.NewAuthenticator(&MockIdentityProvider{}, registry, testConfig{})

		token, got, err := auther.Register(ctx, "writer", "writer@example.com", "secret-password")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "user-456", got.ID())

		registry.AssertExpectations(t)
	})

	t.Run("registration failure surfaces the error", func(t *testing.T) {
		registry := &MockAccountRegisterer{}
		registry.On("RegisterIdentity", ctx, "writer", "writer@example.com", "secret-password").
			Return(nil, mindlit.ErrDuplicateIdentity)

		auther := mindlit.NewAuthenticator(&MockIdentityProvider{}, registry, testConfig{})

		token, _, err := auther.Register(ctx, "writer", "writer@example.com", "secret-password")
		assert.ErrorIs(t, err, mindlit.ErrDuplicateIdentity)
		assert.Empty(t, token)
	})
}

func TestAuthenticator_IdentityFromSubject(t *testing.T) {
	ctx := context.Background()

	identity := newMockIdentity("user-123", "reader", "reader@example.com")

	provider := &MockIdentityProvider{}
	provider.On("FindIdentityByID", ctx, "user-123").Return(identity, nil)

	auther := mindlit.NewAuthenticator(provider, &MockAccountRegisterer{}, testConfig{})

	got, err := auther.IdentityFromSubject(ctx, "user-123")
	assert.NoError(t, err)
	assert.Equal(t, "user-123", got.ID())
}
