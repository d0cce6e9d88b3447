package accounts

import (
	"context"
	stderrors "errors"

	"github.com/goliatone/go-errors"
)

// UserStore is the slice of the users repository the provider needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// UserProvider resolves identities from the user store. It is the
// credential verifier behind the orchestrator: callers only ever see a
// verified Identity or a typed error, never the stored hash.
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return
// the identity. A missing account and a wrong password produce the same
// error so callers cannot probe which emails exist.
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) || errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	// Password first. A wrong password must read the same for disabled
	// accounts as for live ones, otherwise the disabled status leaks to
	// callers who never proved the credential.
	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrAccountDisabled
	}

	return identityFromUser(user), nil
}

// FindIdentityByIdentifier resolves the live account for a token
// subject. Unlike VerifyIdentity it keeps the not found error distinct
// because the caller already proved possession of a token.
func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) || errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by identifier")
	}

	if !user.IsActive() {
		return nil, ErrAccountDisabled
	}

	return identityFromUser(user), nil
}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:       user.ID.String(),
		email:    user.Email,
		nickname: user.Nickname,
		role:     string(user.Role),
	}
}

type authIdentity struct {
	id       string
	email    string
	nickname string
	role     string
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Email() string    { return a.email }
func (a authIdentity) Nickname() string { return a.nickname }
func (a authIdentity) Role() string     { return a.role }

var _ Identity = authIdentity{}
var _ IdentityProvider = UserProvider{}
