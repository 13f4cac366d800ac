package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Resource is a bookable asset (room, vehicle, equipment). Its Properties
// must satisfy the parent type's required-property list and schema.
// Managers are the users allowed to approve bookings for it.
type Resource struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name             string            `gorm:"size:100;not null;index" json:"name"`
	Description      string            `gorm:"type:text" json:"description"`
	ResourceTypeID   uuid.UUID         `gorm:"type:uuid;not null" json:"resource_type_id"`
	Properties       datatypes.JSONMap `gorm:"not null" json:"properties"`
	RequiresApproval bool              `gorm:"not null;default:false" json:"requires_approval"`
	Active           bool              `gorm:"not null;default:true" json:"active"`

	ResourceType ResourceType `gorm:"foreignkey:ResourceTypeID" json:"resource_type,omitempty"`
	Managers     []*User      `gorm:"many2many:resource_managers;" json:"managers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Resource) IsManager(userID uuid.UUID) bool {
	for _, m := range r.Managers {
		if m.ID == userID {
			return true
		}
	}
	return false
}
