package accounts

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Agencies stores agencies and their memberships. Members and the
// representative are id references resolved through lookups.
type Agencies interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Agency, error)
	Create(ctx context.Context, agency *Agency) (*Agency, error)
	ListActive(ctx context.Context) ([]*Agency, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, agencyID, userID uuid.UUID) (*AgencyMembership, error)
	Members(ctx context.Context, agencyID uuid.UUID) ([]*User, error)
}

type agencies struct {
	repository.Repository[*Agency]
	db *bun.DB
}

var _ Agencies = (*agencies)(nil)

func NewAgenciesRepository(db *bun.DB) Agencies {
	repo := repository.NewRepository[*Agency](db, repository.ModelHandlers[*Agency]{
		NewRecord: func() *Agency { return &Agency{} },
		GetID: func(a *Agency) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Agency, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &agencies{
		Repository: repo,
		db:         db,
	}
}

func (r *agencies) GetByID(ctx context.Context, id uuid.UUID) (*Agency, error) {
	record := &Agency{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}

	return record, nil
}

func (r *agencies) Create(ctx context.Context, agency *Agency) (*Agency, error) {
	if agency.ID == uuid.Nil {
		agency.ID = uuid.New()
	}
	agency.Status = true

	return r.Repository.CreateTx(ctx, r.db, agency)
}

func (r *agencies) ListActive(ctx context.Context) ([]*Agency, error) {
	records := []*Agency{}
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.status = ?", true).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *agencies) SoftDelete(ctx context.Context, id uuid.UUID) error {
	agency, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := agency.SoftDelete(); err != nil {
		return err
	}

	now := time.Now()
	agency.UpdatedAt = &now

	_, err = r.db.NewUpdate().Model(agency).
		Column("status", "updated_at").
		WherePK().
		Exec(ctx)

	return err
}

func (r *agencies) AddMember(ctx context.Context, agencyID, userID uuid.UUID) (*AgencyMembership, error) {
	membership := &AgencyMembership{
		ID:       uuid.New(),
		AgencyID: agencyID,
		UserID:   userID,
	}

	_, err := r.db.NewInsert().Model(membership).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return membership, nil
}

func (r *agencies) Members(ctx context.Context, agencyID uuid.UUID) ([]*User, error) {
	memberIDs := []uuid.UUID{}
	err := r.db.NewSelect().Model((*AgencyMembership)(nil)).
		Column("user_id").
		Where("?TableAlias.agency_id = ?", agencyID).
		Scan(ctx, &memberIDs)
	if err != nil {
		return nil, err
	}

	if len(memberIDs) == 0 {
		return []*User{}, nil
	}

	members := []*User{}
	err = r.db.NewSelect().Model(&members).
		Where("?TableAlias.id IN (?)", bun.In(memberIDs)).
		Where("?TableAlias.status = ?", true).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return members, nil
}
