package books

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// AuthClaims mirrors the verified claims stored by the auth gate, so this
// package does not import the root package.
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	Expires() time.Time
	IssuedAt() time.Time
}

type ControllerRoutes struct {
	Generate         string
	History          string
	Book             string
	Suggestions      string
	CreateSuggestion string
}

type Controller struct {
	Logger     Logger
	Service    *Service
	Routes     *ControllerRoutes
	ContextKey string
}

type ControllerOption func(*Controller) *Controller

func WithControllerLogger(l Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = l
		return c
	}
}

func WithControllerService(s *Service) ControllerOption {
	return func(c *Controller) *Controller {
		c.Service = s
		return c
	}
}

func WithControllerContextKey(key string) ControllerOption {
	return func(c *Controller) *Controller {
		c.ContextKey = key
		return c
	}
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:     defLogger{},
		ContextKey: "user",
		Routes: &ControllerRoutes{
			Generate:         "/books/generate",
			History:          "/books/history",
			Book:             "/books/:id",
			Suggestions:      "/suggestions",
			CreateSuggestion: "/suggestions",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing Service in books controller...")
	}

	return c
}

// RegisterRoutes mounts the book endpoints. The suggestion list is public;
// everything touching user history or writing data sits behind the gate.
func RegisterRoutes(app fiber.Router, gate fiber.Handler, opts ...ControllerOption) *Controller {
	controller := NewController(opts...)

	app.Post(controller.Routes.Generate, gate, controller.GeneratePost)
	app.Get(controller.Routes.History, gate, controller.HistoryList)
	app.Get(controller.Routes.Book, gate, controller.BookGet)
	app.Get(controller.Routes.Suggestions, controller.SuggestionList)
	app.Post(controller.Routes.CreateSuggestion, gate, controller.SuggestionCreate)

	return controller
}

// GenerateRequest payload
type GenerateRequest struct {
	BookName   string `form:"book_name" json:"book_name"`
	AuthorName string `form:"author_name" json:"author_name"`
}

// Validate will run validation rules
func (r GenerateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.AuthorName, validation.Length(0, 200)),
	)
}

// SuggestionRequest payload
type SuggestionRequest struct {
	BookName   string `form:"book_name" json:"book_name"`
	AuthorName string `form:"author_name" json:"author_name"`
	Reason     string `form:"reason" json:"reason"`
}

// Validate will run validation rules
func (r SuggestionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.AuthorName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Reason, validation.Length(0, 1000)),
	)
}

func (b *Controller) GeneratePost(c *fiber.Ctx) error {
	userID, err := b.callerID(c)
	if err != nil {
		return b.renderError(c, err)
	}

	payload := new(GenerateRequest)
	if err := c.BodyParser(payload); err != nil {
		return b.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse summary payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(c, err)
	}

	book, err := b.Service.Generate(c.UserContext(), userID, payload.BookName, payload.AuthorName)
	if err != nil {
		return b.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(book)
}

func (b *Controller) HistoryList(c *fiber.Ctx) error {
	userID, err := b.callerID(c)
	if err != nil {
		return b.renderError(c, err)
	}

	history, err := b.Service.History(c.UserContext(), userID)
	if err != nil {
		return b.renderError(c, err)
	}

	if history == nil {
		history = []*Book{}
	}

	return c.JSON(history)
}

func (b *Controller) BookGet(c *fiber.Ctx) error {
	userID, err := b.callerID(c)
	if err != nil {
		return b.renderError(c, err)
	}

	bookID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return b.renderError(c, goerrors.New("summary not found", goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound))
	}

	book, err := b.Service.Get(c.UserContext(), userID, bookID)
	if err != nil {
		return b.renderError(c, err)
	}

	return c.JSON(book)
}

func (b *Controller) SuggestionList(c *fiber.Ctx) error {
	suggestions, err := b.Service.Suggestions(c.UserContext())
	if err != nil {
		return b.renderError(c, err)
	}

	if suggestions == nil {
		suggestions = []*Suggestion{}
	}

	return c.JSON(suggestions)
}

func (b *Controller) SuggestionCreate(c *fiber.Ctx) error {
	userID, err := b.callerID(c)
	if err != nil {
		return b.renderError(c, err)
	}

	payload := new(SuggestionRequest)
	if err := c.BodyParser(payload); err != nil {
		return b.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse suggestion payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(c, err)
	}

	suggestion, err := b.Service.CreateSuggestion(c.UserContext(), userID, payload.BookName, payload.AuthorName, payload.Reason)
	if err != nil {
		return b.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(suggestion)
}

// callerID resolves the authenticated user from the claims the gate stored
func (b *Controller) callerID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := c.Locals(b.ContextKey).(AuthClaims)
	if !ok {
		return uuid.Nil, goerrors.New("invalid or expired credential", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	uid, err := uuid.Parse(claims.UserID())
	if err != nil {
		return uuid.Nil, goerrors.New("invalid or expired credential", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	return uid, nil
}

func renderValidationError(c *fiber.Ctx, err error) error {
	if verrs, ok := err.(validation.Errors); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verrs,
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (b *Controller) renderError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	switch richErr.Category {
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or expired credential",
			"code":  "INVALID_CREDENTIAL",
		})
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": richErr.Message,
		})
	case goerrors.CategoryNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": richErr.Message,
		})
	case goerrors.CategoryOperation:
		b.Logger.Error("Upstream operation failed: %s", richErr.Message)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "could not generate summary, please try again later",
		})
	default:
		b.Logger.Error(
			"Unexpected controller error: %s category=%s details=%s",
			richErr.Message,
			richErr.Category,
			print.MaybePrettyJSON(richErr.Metadata),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong, please try again later",
		})
	}
}
