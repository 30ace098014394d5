package books_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mindlit/mindlit/books"
	"github.com/stretchr/testify/assert"
)

type stubClaims struct {
	subject string
}

func (c stubClaims) Subject() string     { return c.subject }
func (c stubClaims) UserID() string      { return c.subject }
func (c stubClaims) Username() string    { return "reader" }
func (c stubClaims) Expires() time.Time  { return time.Now().Add(time.Hour) }
func (c stubClaims) IssuedAt() time.Time { return time.Now() }

// stubGate injects verified claims when an Authorization header is present
// and rejects otherwise, standing in for the JWT middleware.
func stubGate(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}
		c.Locals("user", books.AuthClaims(stubClaims{subject: userID.String()}))
		return c.Next()
	}
}

type booksTestApp struct {
	app    *fiber.App
	userID uuid.UUID
	store  *fakeBooks
	shelf  *fakeSuggestions
}

func newBooksTestApp(summarizer books.Summarizer) *booksTestApp {
	store := &fakeBooks{}
	shelf := &fakeSuggestions{}
	service := books.NewService(store, shelf, summarizer)

	userID := uuid.New()

	app := fiber.New()
	books.RegisterRoutes(app, stubGate(userID),
		books.WithControllerService(service),
	)

	return &booksTestApp{app: app, userID: userID, store: store, shelf: shelf}
}

func (a *booksTestApp) request(t *testing.T, method, path string, authed bool, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer test-token")
	}

	res, err := a.app.Test(req, -1)
	assert.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	assert.NoError(t, err)

	return res, raw
}

func TestGeneratePost(t *testing.T) {
	t.Run("creates a summary for the caller", func(t *testing.T) {
		a := newBooksTestApp(&fakeSummarizer{result: validResult()})

		res, raw := a.request(t, http.MethodPost, "/books/generate", true, map[string]string{
			"book_name":   "Atomic Habits",
			"author_name": "James Clear",
		})

		assert.Equal(t, fiber.StatusCreated, res.StatusCode)

		var book books.Book
		assert.NoError(t, json.Unmarshal(raw, &book))
		assert.Equal(t, "Atomic Habits", book.BookName)
		assert.NotEmpty(t, book.Summary)
		assert.Len(t, a.store.records, 1)
		assert.Equal(t, a.userID, a.store.records[0].UserID)
	})

	t.Run("requires authentication", func(t *testing.T) {
		a := newBooksTestApp(&fakeSummarizer{result: validResult()})

		res, _ := a.request(t, http.MethodPost, "/books/generate", false, map[string]string{
			"book_name": "Atomic Habits",
		})

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("missing book name returns 400", func(t *testing.T) {
		a := newBooksTestApp(&fakeSummarizer{result: validResult()})

		res, _ := a.request(t, http.MethodPost, "/books/generate", true, map[string]string{
			"author_name": "James Clear",
		})

		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}

func TestHistoryList(t *testing.T) {
	a := newBooksTestApp(&fakeSummarizer{result: validResult()})

	res, raw := a.request(t, http.MethodGet, "/books/history", true, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.JSONEq(t, "[]", string(raw))

	a.request(t, http.MethodPost, "/books/generate", true, map[string]string{
		"book_name": "Deep Work",
	})

	res, raw = a.request(t, http.MethodGet, "/books/history", true, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var history []books.Book
	assert.NoError(t, json.Unmarshal(raw, &history))
	assert.Len(t, history, 1)
}

func TestBookGet(t *testing.T) {
	a := newBooksTestApp(&fakeSummarizer{result: validResult()})

	_, raw := a.request(t, http.MethodPost, "/books/generate", true, map[string]string{
		"book_name": "Deep Work",
	})

	var created books.Book
	assert.NoError(t, json.Unmarshal(raw, &created))

	t.Run("existing summary", func(t *testing.T) {
		res, raw := a.request(t, http.MethodGet, "/books/"+created.ID.String(), true, nil)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)

		var got books.Book
		assert.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		res, _ := a.request(t, http.MethodGet, "/books/"+uuid.NewString(), true, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})

	t.Run("non-uuid id returns 404", func(t *testing.T) {
		res, _ := a.request(t, http.MethodGet, "/books/not-a-uuid", true, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})
}

func TestSuggestionEndpoints(t *testing.T) {
	a := newBooksTestApp(&fakeSummarizer{result: validResult()})

	t.Run("list is public", func(t *testing.T) {
		res, raw := a.request(t, http.MethodGet, "/suggestions", false, nil)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.JSONEq(t, "[]", string(raw))
	})

	t.Run("create requires authentication", func(t *testing.T) {
		res, _ := a.request(t, http.MethodPost, "/suggestions", false, map[string]string{
			"book_name":   "Sapiens",
			"author_name": "Yuval Noah Harari",
		})
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("create then list", func(t *testing.T) {
		res, _ := a.request(t, http.MethodPost, "/suggestions", true, map[string]string{
			"book_name":   "Sapiens",
			"author_name": "Yuval Noah Harari",
			"reason":      "big-picture history",
		})
		assert.Equal(t, fiber.StatusCreated, res.StatusCode)

		res, raw := a.request(t, http.MethodGet, "/suggestions", false, nil)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)

		var all []books.Suggestion
		assert.NoError(t, json.Unmarshal(raw, &all))
		assert.Len(t, all, 1)
		assert.Equal(t, "Sapiens", all[0].BookName)
	})

	t.Run("create without author returns 400", func(t *testing.T) {
		res, _ := a.request(t, http.MethodPost, "/suggestions", true, map[string]string{
			"book_name": "Sapiens",
		})
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}
