package accounts

import (
	"github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AgencyController exposes agency management over HTTP.
type AgencyController struct {
	agencies Agencies
	users    Users
	logger   Logger
}

func NewAgencyController(agencies Agencies, users Users) *AgencyController {
	return &AgencyController{
		agencies: agencies,
		users:    users,
		logger:   defLogger{},
	}
}

func (ct *AgencyController) WithLogger(l Logger) *AgencyController {
	if l != nil {
		ct.logger = l
	}
	return ct
}

func (ct *AgencyController) RegisterRoutes(router fiber.Router) {
	grp := router.Group("/agencies")
	grp.Post("/", ct.Create)
	grp.Get("/", ct.List)
	grp.Get("/:id", ct.Get)
	grp.Delete("/:id", ct.Delete)
	grp.Post("/:id/members", ct.AddMember)
	grp.Get("/:id/members", ct.Members)
}

type CreateAgencyRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	Contact          string `json:"contact"`
	RepresentativeID string `json:"representative_id"`
}

func (r CreateAgencyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Address, validation.Required),
		validation.Field(&r.Contact, validation.Required),
		validation.Field(&r.RepresentativeID, validation.Required, is.UUID),
	)
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

func (r AddMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
	)
}

// Create registers an agency. The representative must be an existing
// active user, a dangling or deleted reference is a bad request rather
// than a not found so the caller knows which field to fix.
func (ct *AgencyController) Create(c *fiber.Ctx) error {
	req := CreateAgencyRequest{}
	if err := c.BodyParser(&req); err != nil {
		return NewValidationError("invalid request body")
	}

	if err := req.Validate(); err != nil {
		return NewValidationError(err.Error())
	}

	repID, err := uuid.Parse(req.RepresentativeID)
	if err != nil {
		return ErrInvalidRepresentative
	}

	representative, err := ct.users.GetByID(c.UserContext(), repID)
	if err != nil || !representative.IsActive() {
		return ErrInvalidRepresentative
	}

	agency, err := ct.agencies.Create(c.UserContext(), &Agency{
		Name:             req.Name,
		Email:            req.Email,
		Address:          req.Address,
		Contact:          req.Contact,
		RepresentativeID: repID,
	})
	if err != nil {
		return err
	}

	ct.logger.Info("agency %s created", agency.ID)
	return RespondSuccess(c, fiber.StatusCreated, "agency created", agency)
}

func (ct *AgencyController) List(c *fiber.Ctx) error {
	records, err := ct.agencies.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return RespondSuccess(c, fiber.StatusOK, "agencies", records)
}

func (ct *AgencyController) Get(c *fiber.Ctx) error {
	agency, err := ct.activeAgency(c)
	if err != nil {
		return err
	}
	return RespondSuccess(c, fiber.StatusOK, "agency", agency)
}

func (ct *AgencyController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ct.agencies.SoftDelete(c.UserContext(), id); err != nil {
		return err
	}

	ct.logger.Info("agency %s deleted", id)
	return RespondSuccess(c, fiber.StatusOK, "agency deleted", nil)
}

func (ct *AgencyController) AddMember(c *fiber.Ctx) error {
	agency, err := ct.activeAgency(c)
	if err != nil {
		return err
	}

	req := AddMemberRequest{}
	if err := c.BodyParser(&req); err != nil {
		return NewValidationError("invalid request body")
	}

	if err := req.Validate(); err != nil {
		return NewValidationError(err.Error())
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return NewValidationError("invalid user_id")
	}

	member, err := ct.users.GetByID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if !member.IsActive() {
		return ErrUserNotFound
	}

	membership, err := ct.agencies.AddMember(c.UserContext(), agency.ID, member.ID)
	if err != nil {
		return err
	}

	return RespondSuccess(c, fiber.StatusCreated, "member added", membership)
}

func (ct *AgencyController) Members(c *fiber.Ctx) error {
	agency, err := ct.activeAgency(c)
	if err != nil {
		return err
	}

	members, err := ct.agencies.Members(c.UserContext(), agency.ID)
	if err != nil {
		return err
	}

	return RespondSuccess(c, fiber.StatusOK, "members", members)
}

func (ct *AgencyController) activeAgency(c *fiber.Ctx) (*Agency, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}

	agency, err := ct.agencies.GetByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if !agency.IsActive() {
		return nil, ErrAgencyNotFound
	}
	return agency, nil
}
