package books_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/mindlit/mindlit/books"
	"github.com/stretchr/testify/assert"
)

// fakeSummarizer returns a canned result or error
type fakeSummarizer struct {
	result *books.SummaryResult
	err    error
	calls  int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, bookName, authorName string) (*books.SummaryResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeBooks is an in-memory Books repository
type fakeBooks struct {
	books.Books
	records []*books.Book
	saveErr error
}

func (f *fakeBooks) Save(ctx context.Context, book *books.Book) (*books.Book, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	f.records = append(f.records, book)
	return book, nil
}

func (f *fakeBooks) GetForUser(ctx context.Context, userID, bookID uuid.UUID) (*books.Book, error) {
	for _, record := range f.records {
		if record.ID == bookID && record.UserID == userID {
			return record, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeBooks) ListForUser(ctx context.Context, userID uuid.UUID) ([]*books.Book, error) {
	var out []*books.Book
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

// fakeSuggestions is an in-memory Suggestions repository
type fakeSuggestions struct {
	books.Suggestions
	records []*books.Suggestion
}

func (f *fakeSuggestions) Save(ctx context.Context, suggestion *books.Suggestion) (*books.Suggestion, error) {
	if suggestion.ID == uuid.Nil {
		suggestion.ID = uuid.New()
	}
	f.records = append(f.records, suggestion)
	return suggestion, nil
}

func (f *fakeSuggestions) ListAll(ctx context.Context) ([]*books.Suggestion, error) {
	return f.records, nil
}

func validResult() *books.SummaryResult {
	return &books.SummaryResult{
		Summary: "A study of habits and how they compound.",
		Flashcards: []books.FlashcardDraft{
			{Question: "What drives habit formation?", Answer: "The cue-routine-reward loop."},
			{Question: "What makes habits stick?", Answer: "Small repeated improvements."},
		},
	}
}

func TestServiceGenerate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("persists the summary with its flashcards", func(t *testing.T) {
		store := &fakeBooks{}
		summarizer := &fakeSummarizer{result: validResult()}

		service := books.NewService(store, &fakeSuggestions{}, summarizer)

		book, err := service.Generate(ctx, userID, "Atomic Habits", "James Clear")
		assert.NoError(t, err)
		assert.Equal(t, "Atomic Habits", book.BookName)
		assert.Equal(t, userID, book.UserID)
		assert.Len(t, book.Flashcards, 2)
		assert.Equal(t, 1, summarizer.calls)
		assert.Len(t, store.records, 1)
	})

	t.Run("generation failure persists nothing", func(t *testing.T) {
		store := &fakeBooks{}
		summarizer := &fakeSummarizer{err: goerrors.New("upstream unavailable", goerrors.CategoryOperation)}

		service := books.NewService(store, &fakeSuggestions{}, summarizer)

		_, err := service.Generate(ctx, userID, "Atomic Habits", "James Clear")
		assert.Error(t, err)
		assert.Empty(t, store.records)
	})
}

func TestServiceHistoryAndGet(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	store := &fakeBooks{}
	summarizer := &fakeSummarizer{result: validResult()}
	service := books.NewService(store, &fakeSuggestions{}, summarizer)

	book, err := service.Generate(ctx, owner, "Deep Work", "Cal Newport")
	assert.NoError(t, err)

	t.Run("history is scoped to the owner", func(t *testing.T) {
		history, err := service.History(ctx, owner)
		assert.NoError(t, err)
		assert.Len(t, history, 1)

		history, err = service.History(ctx, stranger)
		assert.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("get returns the owner's summary", func(t *testing.T) {
		got, err := service.Get(ctx, owner, book.ID)
		assert.NoError(t, err)
		assert.Equal(t, book.ID, got.ID)
	})

	t.Run("another user's summary is not found", func(t *testing.T) {
		_, err := service.Get(ctx, stranger, book.ID)
		assert.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestServiceSuggestions(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	shelf := &fakeSuggestions{}
	service := books.NewService(&fakeBooks{}, shelf, &fakeSummarizer{result: validResult()})

	suggestion, err := service.CreateSuggestion(ctx, userID, "Thinking, Fast and Slow", "Daniel Kahneman", "foundational")
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, suggestion.ID)

	all, err := service.Suggestions(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "Thinking, Fast and Slow", all[0].BookName)
}

func TestNewServicePanicsOnMissingDependencies(t *testing.T) {
	assert.Panics(t, func() {
		books.NewService(nil, &fakeSuggestions{}, &fakeSummarizer{})
	})
	assert.Panics(t, func() {
		books.NewService(&fakeBooks{}, nil, &fakeSummarizer{})
	})
	assert.Panics(t, func() {
		books.NewService(&fakeBooks{}, &fakeSuggestions{}, nil)
	})
}
