package accounts

import (
	"github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

// AuthController exposes the authentication flows over HTTP.
type AuthController struct {
	auther   *Auther
	register *RegisterUserHandler
	cfg      Config
	logger   Logger
}

func NewAuthController(auther *Auther, register *RegisterUserHandler, cfg Config) *AuthController {
	return &AuthController{
		auther:   auther,
		register: register,
		cfg:      cfg,
		logger:   defLogger{},
	}
}

func (ct *AuthController) WithLogger(l Logger) *AuthController {
	if l != nil {
		ct.logger = l
	}
	return ct
}

// RegisterRoutes mounts the auth endpoints on the given router group.
func (ct *AuthController) RegisterRoutes(router fiber.Router) {
	grp := router.Group("/auth")
	grp.Post("/register", ct.Register)
	grp.Post("/login", ct.Login)
	grp.Post("/refresh", ct.Refresh)
	grp.Post("/logout", ct.Logout)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 100)),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type LogoutRequest struct {
	AccessToken string `json:"accessToken"`
}

func (ct *AuthController) Register(c *fiber.Ctx) error {
	msg := RegisterUserMessage{}
	if err := c.BodyParser(&msg); err != nil {
		return NewValidationError("invalid request body")
	}

	// Clients never pick their own role. The provider they may name,
	// as long as it is one we know.
	msg.Role = RoleUser
	switch msg.Provider {
	case "":
		msg.Provider = ProviderEmail
	case ProviderEmail, ProviderGoogle, ProviderKakao:
	default:
		return NewValidationError("provider must be EMAIL, GOOGLE or KAKAO")
	}

	user, err := ct.register.Execute(c.UserContext(), msg)
	if err != nil {
		return err
	}

	ct.logger.Info("registered user %s", user.Email)
	return RespondSuccess(c, fiber.StatusCreated, "user registered", user)
}

func (ct *AuthController) Login(c *fiber.Ctx) error {
	req := LoginRequest{}
	if err := c.BodyParser(&req); err != nil {
		return NewValidationError("invalid request body")
	}

	if err := req.Validate(); err != nil {
		return NewValidationError(err.Error())
	}

	bundle, err := ct.auther.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return RespondSuccess(c, fiber.StatusOK, "login successful", bundle)
}

func (ct *AuthController) Refresh(c *fiber.Ctx) error {
	req := RefreshRequest{}
	if err := c.BodyParser(&req); err != nil {
		return NewValidationError("invalid request body")
	}

	if err := req.Validate(); err != nil {
		return NewValidationError(err.Error())
	}

	bundle, err := ct.auther.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return RespondSuccess(c, fiber.StatusOK, "token refreshed", bundle)
}

// Logout never fails. Even a garbage token gets a success envelope, the
// client is walking away either way. The token comes from the request
// body, with the Authorization header as a fallback.
func (ct *AuthController) Logout(c *fiber.Ctx) error {
	req := LogoutRequest{}
	_ = c.BodyParser(&req)

	token := req.AccessToken
	if token == "" {
		token = extractBearerToken(c.Get(fiber.HeaderAuthorization), ct.cfg.GetAuthScheme())
	}

	ct.auther.Logout(c.UserContext(), token)
	return RespondSuccess(c, fiber.StatusOK, "logout successful", nil)
}
