package mindlit

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UserStore is the subset of the users repository the provider needs
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	GetByUserID(ctx context.Context, id uuid.UUID) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// Any Users repository can back the provider directly
var _ UserStore = (Users)(nil)

// UserProvider resolves and registers identities against a UserStore
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = l
	return u
}

// VerifyIdentity will find the user, compare the password, and return identity.
// Unknown identifiers and wrong passwords produce the same error so responses
// cannot be used to enumerate accounts.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, err
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login: %v", err)
	}

	return identityFromUser(user), nil
}

// FindIdentityByID resolves a verified token subject back to an identity.
// The subject may outlive the account; callers surface that as not found.
func (u *UserProvider) FindIdentityByID(ctx context.Context, id string) (Identity, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrIdentityNotFound
	}

	user, err := u.store.GetByUserID(ctx, uid)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user by id")
	}

	return identityFromUser(user), nil
}

// RegisterIdentity hashes the password and creates the user record. A hashing
// failure is fatal for the registration, never retried.
func (u *UserProvider) RegisterIdentity(ctx context.Context, username, email, password string) (Identity, error) {
	hash, err := HashPassword(password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryValidation {
			return nil, err
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     getUsername(username, email),
		Email:        email,
		PasswordHash: hash,
	}

	if id, err := hashid.NewUUID(email); err == nil {
		user.ID = id
	}

	record, err := u.store.Register(ctx, user)
	if err != nil {
		return nil, err
	}

	return identityFromUser(record), nil
}

var (
	_ IdentityProvider  = (*UserProvider)(nil)
	_ AccountRegisterer = (*UserProvider)(nil)
)

type authIdentity struct {
	id       string
	username string
	email    string
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Email() string {
	return a.email
}

var _ Identity = authIdentity{}

func identityFromUser(user *User) Identity {
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
	}
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
