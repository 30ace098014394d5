package client

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// UserPayload is the identity shape returned by the API
type UserPayload struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AuthResponse is the body returned by login and registration
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}

// FlashcardPayload is a single question/answer pair attached to a summary
type FlashcardPayload struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BookPayload is a generated summary together with its flashcards
type BookPayload struct {
	ID         string             `json:"id"`
	BookName   string             `json:"book_name"`
	AuthorName string             `json:"author_name"`
	Summary    string             `json:"summary"`
	Flashcards []FlashcardPayload `json:"flashcards,omitempty"`
	CreatedAt  string             `json:"created_at,omitempty"`
}

// SuggestionPayload is a community book recommendation
type SuggestionPayload struct {
	ID         string `json:"id"`
	BookName   string `json:"book_name"`
	AuthorName string `json:"author_name"`
	Reason     string `json:"reason,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type generateRequest struct {
	BookName   string `json:"book_name"`
	AuthorName string `json:"author_name"`
}

type suggestionRequest struct {
	BookName   string `json:"book_name"`
	AuthorName string `json:"author_name"`
	Reason     string `json:"reason,omitempty"`
}

// Register creates an account and stores the issued session token
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	res, err := c.Execute(ctx, http.MethodPost, "/auth/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return c.adoptSession(res)
}

// Login exchanges credentials for a session token and stores it
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	res, err := c.Execute(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return c.adoptSession(res)
}

func (c *Client) adoptSession(res *Response) (*AuthResponse, error) {
	auth := &AuthResponse{}
	if err := res.Decode(auth); err != nil {
		return nil, err
	}

	if auth.Token == "" {
		return nil, goerrors.New("server response missing session token", goerrors.CategoryBadInput)
	}

	if err := c.store.Set(auth.Token); err != nil {
		return nil, err
	}

	return auth, nil
}

// Me fetches the identity behind the stored credential
func (c *Client) Me(ctx context.Context) (*UserPayload, error) {
	res, err := c.Execute(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		User UserPayload `json:"user"`
	}
	if err := res.Decode(&body); err != nil {
		return nil, err
	}

	return &body.User, nil
}

// Logout discards the stored credential. Purely local; the server keeps no
// session state to tear down.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// GenerateSummary requests a new summary with flashcards for the given book
func (c *Client) GenerateSummary(ctx context.Context, bookName, authorName string) (*BookPayload, error) {
	res, err := c.Execute(ctx, http.MethodPost, "/books/generate", generateRequest{
		BookName:   bookName,
		AuthorName: authorName,
	})
	if err != nil {
		return nil, err
	}

	book := &BookPayload{}
	if err := res.Decode(book); err != nil {
		return nil, err
	}

	return book, nil
}

// History lists the caller's previously generated summaries, newest first
func (c *Client) History(ctx context.Context) ([]BookPayload, error) {
	res, err := c.Execute(ctx, http.MethodGet, "/books/history", nil)
	if err != nil {
		return nil, err
	}

	var books []BookPayload
	if err := res.Decode(&books); err != nil {
		return nil, err
	}

	return books, nil
}

// Book fetches a single summary by id
func (c *Client) Book(ctx context.Context, id string) (*BookPayload, error) {
	res, err := c.Execute(ctx, http.MethodGet, "/books/"+id, nil)
	if err != nil {
		return nil, err
	}

	book := &BookPayload{}
	if err := res.Decode(book); err != nil {
		return nil, err
	}

	return book, nil
}

// Suggestions lists community book recommendations
func (c *Client) Suggestions(ctx context.Context) ([]SuggestionPayload, error) {
	res, err := c.Execute(ctx, http.MethodGet, "/suggestions", nil)
	if err != nil {
		return nil, err
	}

	var suggestions []SuggestionPayload
	if err := res.Decode(&suggestions); err != nil {
		return nil, err
	}

	return suggestions, nil
}

// CreateSuggestion submits a book recommendation
func (c *Client) CreateSuggestion(ctx context.Context, bookName, authorName, reason string) (*SuggestionPayload, error) {
	res, err := c.Execute(ctx, http.MethodPost, "/suggestions", suggestionRequest{
		BookName:   bookName,
		AuthorName: authorName,
		Reason:     reason,
	})
	if err != nil {
		return nil, err
	}

	suggestion := &SuggestionPayload{}
	if err := res.Decode(suggestion); err != nil {
		return nil, err
	}

	return suggestion, nil
}
