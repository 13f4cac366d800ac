package models

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalRejected  ApprovalStatus = "rejected"
	ApprovalCancelled ApprovalStatus = "cancelled"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalCancelled:
		return true
	}
	return false
}

// BookingApproval records one manager decision on a booking. A booking can
// accumulate several rows over its life (resubmission supersedes the old
// pending row), so the ledger doubles as an audit trail.
type BookingApproval struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BookingID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"booking_id"`
	ApproverID   *uuid.UUID     `gorm:"type:uuid" json:"approver_id,omitempty"`
	Status       ApprovalStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	Comment      *string        `gorm:"type:text" json:"comment,omitempty"`
	DecisionTime *time.Time     `json:"decision_time,omitempty"`

	Booking  Booking `gorm:"foreignkey:BookingID" json:"-"`
	Approver *User   `gorm:"foreignkey:ApproverID" json:"approver,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
