package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser            = "user"
	RoleAdmin           = "admin"
	RoleResourceManager = "resource_manager"
)

// User is the local copy of a directory account. Credentials live in the
// directory service; HashedPassword is populated in development mode only.
// Accounts are deactivated rather than deleted so bookings and approvals
// keep valid references.
type User struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Username     string                      `gorm:"size:100;not null;unique" json:"username"`
	Email        string                      `gorm:"size:255;not null;unique" json:"email"`
	FullName     string                      `gorm:"size:255;not null" json:"full_name"`
	Roles        datatypes.JSONSlice[string] `gorm:"not null" json:"roles"`
	Department   *string                     `gorm:"size:255" json:"department,omitempty"`
	Organization *string                     `gorm:"size:255" json:"organization,omitempty"`
	Position     *string                     `gorm:"size:255" json:"position,omitempty"`
	Active       bool                        `gorm:"not null;default:true" json:"active"`

	HashedPassword *string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
