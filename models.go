package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular account
	RoleUser UserRole = "USER"
	// RoleAdmin can manage other accounts and agencies
	RoleAdmin UserRole = "ADMIN"
)

// Provider tags how the account was created
type Provider = string

const (
	ProviderEmail  Provider = "EMAIL"
	ProviderGoogle Provider = "GOOGLE"
	ProviderKakao  Provider = "KAKAO"
)

// User is the account model. Status is the soft delete flag: an
// inactive user must not authenticate and must not pass token
// validation, even for tokens issued while it was active.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Nickname      string     `bun:"nickname,notnull,unique" json:"nickname,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"role,omitempty"`
	Provider      Provider   `bun:"provider,notnull" json:"provider,omitempty"`
	Status        bool       `bun:"status,notnull" json:"status"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u != nil && u.Status
}

// SoftDelete marks the user inactive. A repeated delete is a typed
// conflict, never a silent success.
func (u *User) SoftDelete() error {
	if !u.Status {
		return ErrAlreadyDeleted
	}
	u.Status = false
	return nil
}

// Restore reactivates a soft deleted user. There is no HTTP endpoint
// for this on purpose, it exists for operational tooling only.
func (u *User) Restore() {
	u.Status = true
}

// Agency groups users. The representative is a plain id reference
// resolved through the users repository, never a live object graph.
type Agency struct {
	bun.BaseModel    `bun:"table:agencies,alias:agc"`
	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name             string     `bun:"name,notnull" json:"name,omitempty"`
	Email            string     `bun:"email,notnull" json:"email,omitempty"`
	Address          string     `bun:"address,notnull" json:"address,omitempty"`
	Contact          string     `bun:"contact,notnull" json:"contact,omitempty"`
	RepresentativeID uuid.UUID  `bun:"representative_id,notnull,type:uuid" json:"representative_id,omitempty"`
	Status           bool       `bun:"status,notnull" json:"status"`
	CreatedAt        *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsActive reports whether the agency is not soft deleted.
func (a *Agency) IsActive() bool {
	return a != nil && a.Status
}

// SoftDelete marks the agency inactive.
func (a *Agency) SoftDelete() error {
	if !a.Status {
		return ErrAlreadyDeleted
	}
	a.Status = false
	return nil
}

// AgencyMembership links users to agencies by id.
type AgencyMembership struct {
	bun.BaseModel `bun:"table:agency_memberships,alias:mbr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	AgencyID      uuid.UUID  `bun:"agency_id,notnull,type:uuid" json:"agency_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
