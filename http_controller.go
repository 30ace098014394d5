package mindlit

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type AuthControllerRoutes struct {
	Register string
	Login    string
	Me       string
}

type AuthController struct {
	Logger     Logger
	Auther     Authenticator
	Repo       RepositoryManager
	Routes     *AuthControllerRoutes
	ContextKey string
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = l
		return c
	}
}

func WithControllerAuthenticator(a Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = a
		return c
	}
}

func WithControllerRepo(r RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = r
		return c
	}
}

func WithControllerContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.ContextKey = key
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		ContextKey: "user",
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Me:       "/auth/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the auth endpoints. Only the /me route sits
// behind the gate; register and login have to be reachable anonymously.
func RegisterAuthRoutes(app fiber.Router, gate fiber.Handler, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Get(controller.Routes.Me, gate, controller.Me)

	return controller
}

// RegisterRequest payload
type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(3, 0),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 0),
		),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules. Login only checks presence; a malformed
// email simply fails verification and surfaces as a 401.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse registration payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(c, err)
	}

	token, identity, err := a.Auther.Register(c.UserContext(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  identityPayload(identity),
	})
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse login payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(c, err)
	}

	token, identity, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  identityPayload(identity),
	})
}

// Me resolves the verified token subject back to the stored user. The gate
// has already validated the token; the subject may still have been deleted
// since the token was issued.
func (a *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(a.ContextKey).(AuthClaims)
	if !ok {
		return a.renderError(c, ErrTokenMalformed)
	}

	uid, err := uuid.Parse(claims.UserID())
	if err != nil {
		return a.renderError(c, ErrIdentityNotFound)
	}

	user, err := a.Repo.Users().GetByUserID(c.UserContext(), uid)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return a.renderError(c, ErrIdentityNotFound)
		}
		return a.renderError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":         user.ID.String(),
			"username":   user.Username,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}

func identityPayload(identity Identity) fiber.Map {
	return fiber.Map{
		"id":       identity.ID(),
		"username": identity.Username(),
		"email":    identity.Email(),
	}
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

// renderError maps rich errors to responses. Token verification failures do
// not reach this path; the gate's error handler owns those.
func (a *AuthController) renderError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	switch richErr.Category {
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid email or password",
			"code":  TextCodeInvalidCredential,
		})
	case goerrors.CategoryConflict:
		body := fiber.Map{
			"error": richErr.Message,
			"code":  richErr.TextCode,
		}
		if field, ok := richErr.Metadata["field"].(string); ok && field != "" {
			body["field"] = field
		}
		return c.Status(fiber.StatusConflict).JSON(body)
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": richErr.Message,
		})
	case goerrors.CategoryNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": richErr.Message,
		})
	default:
		a.Logger.Error(
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
