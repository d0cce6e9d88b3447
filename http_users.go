package accounts

import (
	"github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserController exposes account management over HTTP. Everything here
// sits behind the session filter plus RequireAuthenticated.
type UserController struct {
	users      Users
	register   *RegisterUserHandler
	contextKey string
	logger     Logger
}

func NewUserController(users Users, register *RegisterUserHandler, contextKey string) *UserController {
	if contextKey == "" {
		contextKey = "user"
	}
	return &UserController{
		users:      users,
		register:   register,
		contextKey: contextKey,
		logger:     defLogger{},
	}
}

func (ct *UserController) WithLogger(l Logger) *UserController {
	if l != nil {
		ct.logger = l
	}
	return ct
}

func (ct *UserController) RegisterRoutes(router fiber.Router) {
	grp := router.Group("/users")
	grp.Post("/", ct.Create)
	grp.Get("/", ct.List)
	grp.Get("/me", ct.Me)
	grp.Get("/:id", ct.Get)
	grp.Patch("/:id", ct.Update)
	grp.Delete("/:id", ct.Delete)
}

type UpdateUserRequest struct {
	Nickname string `json:"nickname"`
	Phone    string `json:"phone_number"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nickname, validation.Length(2, 30)),
		validation.Field(&r.Phone, validation.By(validPhoneNumber)),
	)
}

// Create registers an account on behalf of an authenticated caller.
// Unlike the public registration endpoint the payload may carry a role.
func (ct *UserController) Create(c *fiber.Ctx) error {
	msg := RegisterUserMessage{}
	if err := c.BodyParser(&msg); err != nil {
		return NewValidationError("invalid request body")
	}

	if msg.Role != "" && msg.Role != RoleUser && msg.Role != RoleAdmin {
		return NewValidationError("role must be USER or ADMIN")
	}

	user, err := ct.register.Execute(c.UserContext(), msg)
	if err != nil {
		return err
	}

	ct.logger.Info("created user %s", user.Email)
	return RespondSuccess(c, fiber.StatusCreated, "user created", user)
}

// List returns active accounts only. Soft deleted users are invisible
// to every read endpoint.
func (ct *UserController) List(c *fiber.Ctx) error {
	records, err := ct.users.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return RespondSuccess(c, fiber.StatusOK, "users", records)
}

// Me resolves the caller's own account from the session principal.
func (ct *UserController) Me(c *fiber.Ctx) error {
	principal, ok := PrincipalFrom(c, ct.contextKey)
	if !ok {
		return ErrUnauthorizedAccess
	}

	id, err := uuid.Parse(principal.UserID)
	if err != nil {
		return ErrUnauthorizedAccess
	}

	user, err := ct.activeUser(c, id)
	if err != nil {
		return err
	}

	return RespondSuccess(c, fiber.StatusOK, "profile", user)
}

func (ct *UserController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := ct.activeUser(c, id)
	if err != nil {
		return err
	}

	return RespondSuccess(c, fiber.StatusOK, "user", user)
}

func (ct *UserController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	req := UpdateUserRequest{}
	if err := c.BodyParser(&req); err != nil {
		return NewValidationError("invalid request body")
	}

	if err := req.Validate(); err != nil {
		return NewValidationError(err.Error())
	}

	user, err := ct.activeUser(c, id)
	if err != nil {
		return err
	}

	if req.Nickname != "" && req.Nickname != user.Nickname {
		taken, err := ct.users.ExistsByNickname(c.UserContext(), req.Nickname)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateNickname
		}
		user.Nickname = req.Nickname
	}

	if req.Phone != "" {
		user.Phone = req.Phone
	}

	user, err = ct.users.Update(c.UserContext(), user)
	if err != nil {
		return err
	}

	return RespondSuccess(c, fiber.StatusOK, "user updated", user)
}

// Delete soft deletes. Repeating the call is a conflict, not a no-op,
// so clients notice they are operating on a dead account.
func (ct *UserController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ct.users.SoftDelete(c.UserContext(), id); err != nil {
		return err
	}

	ct.logger.Info("user %s deleted", id)
	return RespondSuccess(c, fiber.StatusOK, "user deleted", nil)
}

// activeUser treats a soft deleted account the same as a missing one.
func (ct *UserController) activeUser(c *fiber.Ctx, id uuid.UUID) (*User, error) {
	user, err := ct.users.GetByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, NewValidationError("invalid id")
	}
	return id, nil
}
