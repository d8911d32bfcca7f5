package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	IsActive        bool      `json:"is_active"`
	IsEmailVerified bool      `json:"is_email_verified"`
	Roles           []string  `json:"roles"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// NewUser is what the credential store needs to persist a signup.
type NewUser struct {
	Email           string
	Username        string
	PasswordHash    string
	Role            string
	IsActive        bool
	IsEmailVerified bool
}

// Principal is the authenticated identity of a request.
type Principal struct {
	UserID          uuid.UUID
	Email           string
	Username        string
	Roles           []string
	IsEmailVerified bool
}

func NewPrincipal(u *User) *Principal {
	return &Principal{
		UserID:          u.ID,
		Email:           u.Email,
		Username:        u.Username,
		Roles:           slices.Clone(u.Roles),
		IsEmailVerified: u.IsEmailVerified,
	}
}

func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
