package accounts

import (
	"context"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the credential store for accounts. Lookups by email back the
// authenticator and the session filter; soft delete and restore flip the
// status flag, they never remove rows.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailTx(ctx context.Context, tx bun.IDB, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	ExistsByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (bool, error)
	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	ListActive(ctx context.Context) ([]*User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (r *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return record, nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return record, nil
}

func (r *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.ExistsByEmailTx(ctx, r.db, email)
}

func (r *users) ExistsByEmailTx(ctx context.Context, tx bun.IDB, email string) (bool, error) {
	return tx.NewSelect().Model((*User)(nil)).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Exists(ctx)
}

func (r *users) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.ExistsByNicknameTx(ctx, r.db, nickname)
}

func (r *users) ExistsByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (bool, error) {
	return tx.NewSelect().Model((*User)(nil)).
		Where("?TableAlias.nickname = ?", strings.TrimSpace(nickname)).
		Exists(ctx)
}

func (r *users) Register(ctx context.Context, user *User) (*User, error) {
	return r.RegisterTx(ctx, r.db, user)
}

func (r *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return r.Repository.CreateTx(ctx, tx, user)
}

func (r *users) Update(ctx context.Context, user *User) (*User, error) {
	now := time.Now()
	user.UpdatedAt = &now

	_, err := r.db.NewUpdate().Model(user).
		Column("nickname", "phone_number", "user_role", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *users) ListActive(ctx context.Context) ([]*User, error) {
	records := []*User{}
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.status = ?", true).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *users) SoftDelete(ctx context.Context, id uuid.UUID) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.SoftDelete(); err != nil {
		return err
	}

	_, err = r.Update(ctx, user)
	return err
}

func (r *users) Restore(ctx context.Context, id uuid.UUID) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	user.Restore()
	_, err = r.Update(ctx, user)
	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.Provider == "" {
		record.Provider = ProviderEmail
	}

	record.Status = true

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
