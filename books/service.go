// Package books implements summary generation and the community suggestion
// shelf: a user names a book, the summarizer produces a structured summary
// with study flashcards, and the result is stored in the user's history.
package books

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] BOOKS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] BOOKS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] BOOKS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

// SummaryResult is what a Summarizer produces for one book
type SummaryResult struct {
	Summary    string
	Flashcards []FlashcardDraft
}

type FlashcardDraft struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Summarizer produces a summary with flashcards for a named book
type Summarizer interface {
	Summarize(ctx context.Context, bookName, authorName string) (*SummaryResult, error)
}

// Service owns the summary lifecycle: generate through the Summarizer, persist
// through the repositories, and answer history and suggestion queries.
type Service struct {
	books       Books
	suggestions Suggestions
	summarizer  Summarizer
	logger      Logger
}

type ServiceOption func(*Service)

func WithLogger(l Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(books Books, suggestions Suggestions, summarizer Summarizer, opts ...ServiceOption) *Service {
	if books == nil {
		panic("BOOKS: service configuration: Books repository is required.")
	}

	if suggestions == nil {
		panic("BOOKS: service configuration: Suggestions repository is required.")
	}

	if summarizer == nil {
		panic("BOOKS: service configuration: Summarizer is required.")
	}

	s := &Service{
		books:       books,
		suggestions: suggestions,
		summarizer:  summarizer,
		logger:      defLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Generate produces a fresh summary for the book and records it in the
// caller's history. Nothing is persisted when generation fails.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, bookName, authorName string) (*Book, error) {
	result, err := s.summarizer.Summarize(ctx, bookName, authorName)
	if err != nil {
		s.logger.Error("summary generation failed for %q: %v", bookName, err)
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "could not generate summary")
	}

	book := &Book{
		UserID:     userID,
		BookName:   bookName,
		AuthorName: authorName,
		Summary:    result.Summary,
	}

	for _, draft := range result.Flashcards {
		book.Flashcards = append(book.Flashcards, &Flashcard{
			Question: draft.Question,
			Answer:   draft.Answer,
		})
	}

	saved, err := s.books.Save(ctx, book)
	if err != nil {
		return nil, err
	}

	s.logger.Info("generated summary %s for user %s", saved.ID, userID)

	return saved, nil
}

// History returns the caller's summaries, newest first
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*Book, error) {
	return s.books.ListForUser(ctx, userID)
}

// Get fetches one of the caller's summaries by id
func (s *Service) Get(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (*Book, error) {
	book, err := s.books.GetForUser(ctx, userID, bookID)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryNotFound, "summary not found").
				WithCode(goerrors.CodeNotFound)
		}
		return nil, err
	}

	return book, nil
}

// Suggestions returns the shared suggestion shelf
func (s *Service) Suggestions(ctx context.Context) ([]*Suggestion, error) {
	return s.suggestions.ListAll(ctx)
}

// CreateSuggestion adds a recommendation to the shared shelf
func (s *Service) CreateSuggestion(ctx context.Context, userID uuid.UUID, bookName, authorName, reason string) (*Suggestion, error) {
	return s.suggestions.Save(ctx, &Suggestion{
		UserID:     userID,
		BookName:   bookName,
		AuthorName: authorName,
		Reason:     reason,
	})
}
