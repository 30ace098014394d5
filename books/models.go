package books

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Book is one generated summary owned by a user
type Book struct {
	bun.BaseModel `bun:"table:books,alias:bk"`

	ID         uuid.UUID `bun:"id,pk,notnull" json:"id"`
	UserID     uuid.UUID `bun:"user_id,notnull" json:"-"`
	BookName   string    `bun:"book_name,notnull" json:"book_name"`
	AuthorName string    `bun:"author_name,notnull" json:"author_name"`
	Summary    string    `bun:"summary,notnull" json:"summary"`

	Flashcards []*Flashcard `bun:"rel:has-many,join:id=book_id" json:"flashcards,omitempty"`

	CreatedAt *time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at,omitempty"`
}

// Flashcard is a question/answer pair generated alongside a summary
type Flashcard struct {
	bun.BaseModel `bun:"table:flashcards,alias:fc"`

	ID       uuid.UUID `bun:"id,pk,notnull" json:"id"`
	BookID   uuid.UUID `bun:"book_id,notnull" json:"-"`
	Question string    `bun:"question,notnull" json:"question"`
	Answer   string    `bun:"answer,notnull" json:"answer"`

	CreatedAt *time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at,omitempty"`
}

// Suggestion is a community book recommendation
type Suggestion struct {
	bun.BaseModel `bun:"table:suggestions,alias:sg"`

	ID         uuid.UUID `bun:"id,pk,notnull" json:"id"`
	UserID     uuid.UUID `bun:"user_id,notnull" json:"-"`
	BookName   string    `bun:"book_name,notnull" json:"book_name"`
	AuthorName string    `bun:"author_name,notnull" json:"author_name"`
	Reason     string    `bun:"reason" json:"reason,omitempty"`

	CreatedAt *time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at,omitempty"`
}
