package services

import (
	"github.com/google/uuid"

	"github.com/srr-project/srr-backend/models"
)

// Actor is the authenticated identity resolved from the JWT claims.
type Actor struct {
	ID    uuid.UUID
	Roles []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(models.RoleAdmin)
}

type Action string

const (
	ActionBookingRead    Action = "booking.read"
	ActionBookingUpdate  Action = "booking.update"
	ActionBookingCancel  Action = "booking.cancel"
	ActionBookingDecide  Action = "booking.decide"
	ActionResourceManage Action = "resource.manage"
	ActionUserManage     Action = "user.manage"
)

// Can is the single authorization gate every workflow guard goes through.
// The booking argument may be nil for actions that are not tied to one
// (resource and user management).
func Can(actor Actor, action Action, booking *models.Booking, resource *models.Resource) bool {
	if actor.IsAdmin() {
		return true
	}

	switch action {
	case ActionBookingRead:
		if booking != nil && booking.UserID == actor.ID {
			return true
		}
		return resource != nil && resource.IsManager(actor.ID)
	case ActionBookingUpdate, ActionBookingCancel:
		return booking != nil && booking.UserID == actor.ID
	case ActionBookingDecide:
		return resource != nil && resource.IsManager(actor.ID)
	case ActionResourceManage, ActionUserManage:
		return false
	}
	return false
}
