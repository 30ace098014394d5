package mindlit

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	GetByUserID(ctx context.Context, id uuid.UUID) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx creates the user, translating unique-constraint violations on
// username/email into a conflict error so the second registration of a taken
// identifier never creates a row.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)

	record, err := a.Repository.CreateTx(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, goerrors.Wrap(err, ErrDuplicateIdentity.Category, ErrDuplicateIdentity.Message).
				WithTextCode(ErrDuplicateIdentity.TextCode).
				WithCode(goerrors.CodeConflict).
				WithMetadata(map[string]any{
					"field": uniqueViolationField(err),
				})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	return record, nil
}

func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	options := resolveUserIdentifier(identifier)

	for _, opt := range options {
		record := &User{}
		q := tx.NewSelect().Model(record)

		for _, c := range criteria {
			q.Apply(c)
		}

		err := q.
			Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}

		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"identifier": identifier,
		})
}

// GetByUserID is the uuid-keyed accessor. The embedded Repository already
// owns the string-keyed GetByID name.
func (a *users) GetByUserID(ctx context.Context, id uuid.UUID) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	loggedInAt := time.Now()
	_, err := a.db.NewRaw(`
		UPDATE "users" AS "usr"
		SET "loggedin_at" = ?
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, loggedInAt, user.ID).Exec(ctx)

	return err
}

type identifierOption struct {
	column string
	value  string
}

func resolveUserIdentifier(identifier string) []identifierOption {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil
	}

	if _, err := mail.ParseAddress(identifier); err == nil {
		return []identifierOption{{column: "email", value: identifier}}
	}

	if _, err := uuid.Parse(identifier); err == nil {
		return []identifierOption{{column: "id", value: identifier}}
	}

	return []identifierOption{{column: "username", value: identifier}}
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.UpdatedAt == nil {
		record.UpdatedAt = &now
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func uniqueViolationField(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "username"):
		return "username"
	default:
		return ""
	}
}
