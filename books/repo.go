package books

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Books interface {
	repository.Repository[*Book]

	Save(ctx context.Context, book *Book) (*Book, error)
	GetForUser(ctx context.Context, userID, bookID uuid.UUID) (*Book, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Book, error)
}

type booksRepo struct {
	repository.Repository[*Book]
	db *bun.DB
}

var (
	_ Books                        = (*booksRepo)(nil)
	_ repository.Repository[*Book] = (*booksRepo)(nil)
)

func NewBooksRepository(db *bun.DB) Books {
	repo := repository.NewRepository[*Book](db, repository.ModelHandlers[*Book]{
		NewRecord: func() *Book { return &Book{} },
		GetID: func(b *Book) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Book, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &booksRepo{
		Repository: repo,
		db:         db,
	}
}

// Save persists the summary and its flashcards atomically
func (r *booksRepo) Save(ctx context.Context, book *Book) (*Book, error) {
	prepareBookDefaults(book)

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(book).Exec(ctx); err != nil {
			return err
		}

		if len(book.Flashcards) == 0 {
			return nil
		}

		if _, err := tx.NewInsert().Model(&book.Flashcards).Exec(ctx); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not save summary")
	}

	return book, nil
}

// GetForUser fetches one summary, scoped to its owner so one user can never
// address another user's history.
func (r *booksRepo) GetForUser(ctx context.Context, userID, bookID uuid.UUID) (*Book, error) {
	record := &Book{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Flashcards").
		Where("?TableAlias.id = ?", bookID).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": bookID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

// ListForUser returns the owner's summaries, newest first
func (r *booksRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Book, error) {
	var records []*Book
	err := r.db.NewSelect().
		Model(&records).
		Relation("Flashcards").
		Where("?TableAlias.user_id = ?", userID).
		Order("bk.created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

type Suggestions interface {
	repository.Repository[*Suggestion]

	Save(ctx context.Context, suggestion *Suggestion) (*Suggestion, error)
	ListAll(ctx context.Context) ([]*Suggestion, error)
}

type suggestionsRepo struct {
	repository.Repository[*Suggestion]
	db *bun.DB
}

var (
	_ Suggestions                        = (*suggestionsRepo)(nil)
	_ repository.Repository[*Suggestion] = (*suggestionsRepo)(nil)
)

func NewSuggestionsRepository(db *bun.DB) Suggestions {
	repo := repository.NewRepository[*Suggestion](db, repository.ModelHandlers[*Suggestion]{
		NewRecord: func() *Suggestion { return &Suggestion{} },
		GetID: func(s *Suggestion) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Suggestion, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &suggestionsRepo{
		Repository: repo,
		db:         db,
	}
}

func (r *suggestionsRepo) Save(ctx context.Context, suggestion *Suggestion) (*Suggestion, error) {
	if suggestion.ID == uuid.Nil {
		suggestion.ID = uuid.New()
	}
	if suggestion.CreatedAt == nil {
		now := time.Now()
		suggestion.CreatedAt = &now
	}

	record, err := r.Repository.Create(ctx, suggestion)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not save suggestion")
	}

	return record, nil
}

// ListAll returns every suggestion, newest first. Suggestions are a shared
// shelf, not per-user data.
func (r *suggestionsRepo) ListAll(ctx context.Context) ([]*Suggestion, error) {
	var records []*Suggestion
	err := r.db.NewSelect().
		Model(&records).
		Order("sg.created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func prepareBookDefaults(book *Book) {
	if book == nil {
		return
	}

	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}

	now := time.Now()
	if book.CreatedAt == nil {
		book.CreatedAt = &now
	}
	if book.UpdatedAt == nil {
		book.UpdatedAt = &now
	}

	for _, card := range book.Flashcards {
		if card == nil {
			continue
		}
		if card.ID == uuid.Nil {
			card.ID = uuid.New()
		}
		card.BookID = book.ID
		if card.CreatedAt == nil {
			card.CreatedAt = &now
		}
	}
}
