package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// bookingTransitions is the closed set of legal status moves. Anything not
// listed here is an invalid-state error, never a silent success.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingRejected, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
	BookingRejected:  {},
	BookingCancelled: {},
	BookingCompleted: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsBlocking reports whether a booking in this status occupies its window
// for availability purposes. Rejected and cancelled bookings never block;
// completed ones are history and cannot coexist with a future window since
// past-dated bookings are rejected at validation.
func (s BookingStatus) IsBlocking() bool {
	return s == BookingPending || s == BookingConfirmed
}

func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

// Booking reserves a resource for the half-open window [StartTime, EndTime).
type Booking struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	ResourceID uuid.UUID     `gorm:"type:uuid;not null;index" json:"resource_id"`
	UserID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	StartTime  time.Time     `gorm:"not null;index" json:"start_time"`
	EndTime    time.Time     `gorm:"not null;index" json:"end_time"`
	Status     BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Purpose    string        `gorm:"type:text;not null" json:"purpose"`
	Attendees  int           `gorm:"not null;default:1" json:"attendees"`

	ReminderSentAt *time.Time `json:"-"`

	Resource  Resource          `gorm:"foreignkey:ResourceID" json:"resource,omitempty"`
	User      User              `gorm:"foreignkey:UserID" json:"user,omitempty"`
	Approvals []BookingApproval `gorm:"foreignkey:BookingID" json:"approvals,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// Overlaps reports whether two bookings on the same resource collide.
// Half-open interval semantics: a booking ending exactly when another
// starts does not conflict.
func (b *Booking) Overlaps(other *Booking) bool {
	return b.ResourceID == other.ResourceID &&
		b.StartTime.Before(other.EndTime) &&
		b.EndTime.After(other.StartTime)
}
