package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ResourceType defines a category of bookable resources and the property
// schema its instances must satisfy. Schema maps a property name to its
// constraint metadata ({"type": ..., "enum": ..., "min": ..., "max": ...});
// RequiredProperties lists the schema keys every resource of this type must
// carry.
type ResourceType struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Name               string                      `gorm:"size:100;not null;unique" json:"name"`
	Description        string                      `gorm:"type:text" json:"description"`
	Schema             datatypes.JSONMap           `gorm:"not null" json:"schema"`
	RequiredProperties datatypes.JSONSlice[string] `gorm:"not null" json:"required_properties"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
