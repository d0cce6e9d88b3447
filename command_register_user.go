package accounts

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// DefaultPhoneRegion is the region used to parse phone numbers that
// come in without a country prefix.
var DefaultPhoneRegion = "KR"

type RegisterUserMessage struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Nickname  string `json:"nickname"`
	Phone     string `json:"phone_number"`
	Provider  string `json:"provider"`
	Role      string `json:"role"`
	UseHashid bool   `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&e.Nickname, validation.Required, validation.Length(2, 30)),
		validation.Field(&e.Phone, validation.By(validPhoneNumber)),
	)
}

func validPhoneNumber(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	parsed, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return goerrors.New("phone number could not be parsed", goerrors.CategoryValidation)
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return goerrors.New("phone number is not valid", goerrors.CategoryValidation)
	}

	return nil
}

type RegisterUserHandler struct {
	repo RepositoryManager
}

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	if err := event.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}

	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Uniqueness checks must share the insert's transaction, both
		// for atomicity and because the pool may hold a single
		// connection the open transaction already occupies.
		taken, err := h.repo.Users().ExistsByEmailTx(ctx, tx, event.Email)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
		}
		if taken {
			return ErrDuplicateEmail
		}

		taken, err = h.repo.Users().ExistsByNicknameTx(ctx, tx, event.Nickname)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check nickname availability")
		}
		if taken {
			return ErrDuplicateNickname
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = strings.TrimSpace(strings.ToLower(event.Email))
		user.Nickname = strings.TrimSpace(event.Nickname)
		user.Phone = event.Phone
		user.Provider = event.Provider
		user.Role = event.Role
		if event.UseHashid {
			if id, err := hashid.NewUUID(user.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}
