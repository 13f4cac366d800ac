package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/srr-project/srr-backend/apperror"
	"github.com/srr-project/srr-backend/models"
)

// BookingService drives the booking lifecycle: creation, updates,
// cancellation and the manager approval workflow. Every time-affecting
// transition re-checks availability inside one transaction holding a row
// lock on the resource, so two concurrent requests for overlapping windows
// cannot both commit.
type BookingService struct {
	db           *gorm.DB
	availability *AvailabilityService
	notifier     Notifier
	events       EventSink

	now func() time.Time
}

func NewBookingService(db *gorm.DB, availability *AvailabilityService, notifier Notifier, events EventSink) *BookingService {
	if notifier == nil {
		notifier = NoopNotifier
	}
	if events == nil {
		events = NoopEventSink
	}
	return &BookingService{
		db:           db,
		availability: availability,
		notifier:     notifier,
		events:       events,
		now:          time.Now,
	}
}

type CreateBookingInput struct {
	ResourceID uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	Purpose    string
	Attendees  int
}

type UpdateBookingInput struct {
	StartTime *time.Time
	EndTime   *time.Time
	Purpose   *string
	Attendees *int
}

// lockResource takes a FOR UPDATE lock on the resource row so the
// availability check and the subsequent insert are serialized per resource.
// SQLite (tests) has no row locks; its single-writer model covers that path.
func lockResource(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (s *BookingService) validateWindow(start, end time.Time) error {
	if !end.After(start) {
		return apperror.Validation("end_time must be after start_time")
	}
	if !end.After(s.now()) {
		return apperror.Validation("booking window must not lie entirely in the past")
	}
	return nil
}

func sanitizeConflicts(conflicts []models.Booking) []apperror.ConflictWindow {
	windows := make([]apperror.ConflictWindow, 0, len(conflicts))
	for _, c := range conflicts {
		windows = append(windows, apperror.ConflictWindow{
			BookingID:  c.ID,
			ResourceID: c.ResourceID,
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
		})
	}
	return windows
}

func (s *BookingService) Create(actor Actor, in CreateBookingInput) (*models.Booking, error) {
	if strings.TrimSpace(in.Purpose) == "" {
		return nil, apperror.Validation("purpose must not be empty")
	}
	if err := s.validateWindow(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if in.Attendees < 1 {
		in.Attendees = 1
	}

	var booking models.Booking
	var resource models.Resource
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockResource(tx).Preload("Managers").First(&resource, "id = ?", in.ResourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("resource not found")
			}
			return err
		}
		if !resource.Active {
			return apperror.Validation("resource is not active")
		}

		conflicts, err := s.availability.FindConflicts(tx, resource.ID, in.StartTime, in.EndTime, uuid.Nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperror.Conflict("resource is not available during the requested period", sanitizeConflicts(conflicts))
		}

		status := models.BookingConfirmed
		if resource.RequiresApproval {
			status = models.BookingPending
		}

		booking = models.Booking{
			ResourceID: resource.ID,
			UserID:     actor.ID,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			Status:     status,
			Purpose:    in.Purpose,
			Attendees:  in.Attendees,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if status == models.BookingPending {
			approval := models.BookingApproval{
				BookingID: booking.ID,
				Status:    models.ApprovalPending,
			}
			if err := tx.Create(&approval).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingPending {
		s.notifyManagers(&resource, "A booking is awaiting your approval",
			fmt.Sprintf("<h1>Approval Needed</h1><p>A new booking for %s from %s to %s is waiting for your decision.</p>",
				resource.Name, booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339)))
	}
	s.events.PublishBookingEvent("booking.created", booking.ID.String(), booking.ResourceID.String(), string(booking.Status))

	return &booking, nil
}

func (s *BookingService) Update(actor Actor, bookingID uuid.UUID, in UpdateBookingInput) (*models.Booking, error) {
	var booking models.Booking
	var demoted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Resource.Managers").First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("booking not found")
			}
			return err
		}
		if !Can(actor, ActionBookingUpdate, &booking, &booking.Resource) {
			return apperror.Forbidden("only the requester or an admin may update a booking")
		}
		if booking.Status.Terminal() {
			return apperror.InvalidState(fmt.Sprintf("cannot update a booking with status '%s'", booking.Status))
		}

		newStart := booking.StartTime
		newEnd := booking.EndTime
		if in.StartTime != nil {
			newStart = *in.StartTime
		}
		if in.EndTime != nil {
			newEnd = *in.EndTime
		}
		windowChanged := !newStart.Equal(booking.StartTime) || !newEnd.Equal(booking.EndTime)

		if windowChanged {
			if err := s.validateWindow(newStart, newEnd); err != nil {
				return err
			}
			if err := lockResource(tx).First(&models.Resource{}, "id = ?", booking.ResourceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NotFound("resource not found")
				}
				return err
			}
			conflicts, err := s.availability.FindConflicts(tx, booking.ResourceID, newStart, newEnd, booking.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return apperror.Conflict("resource is not available during the requested period", sanitizeConflicts(conflicts))
			}
			booking.StartTime = newStart
			booking.EndTime = newEnd
			booking.ReminderSentAt = nil

			// Moving a confirmed booking on an approval-required resource
			// sends it back through the approval workflow: the granted
			// approval no longer covers the new window.
			if booking.Status == models.BookingConfirmed && booking.Resource.RequiresApproval {
				booking.Status = models.BookingPending
				demoted = true
				if err := s.supersedeApprovals(tx, booking.ID); err != nil {
					return err
				}
				approval := models.BookingApproval{
					BookingID: booking.ID,
					Status:    models.ApprovalPending,
				}
				if err := tx.Create(&approval).Error; err != nil {
					return err
				}
			}
		}

		if in.Purpose != nil {
			if strings.TrimSpace(*in.Purpose) == "" {
				return apperror.Validation("purpose must not be empty")
			}
			booking.Purpose = *in.Purpose
		}
		if in.Attendees != nil {
			if *in.Attendees < 1 {
				return apperror.Validation("attendees must be at least 1")
			}
			booking.Attendees = *in.Attendees
		}

		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	if demoted {
		s.notifyManagers(&booking.Resource, "A rescheduled booking needs your approval",
			fmt.Sprintf("<h1>Re-Approval Needed</h1><p>A booking for %s was moved to %s - %s and needs a fresh decision.</p>",
				booking.Resource.Name, booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339)))
	}
	s.events.PublishBookingEvent("booking.updated", booking.ID.String(), booking.ResourceID.String(), string(booking.Status))

	return &booking, nil
}

// supersedeApprovals closes every still-open approval row on the booking so
// the fresh pending row is the only live one; decided rows stay as history.
func (s *BookingService) supersedeApprovals(tx *gorm.DB, bookingID uuid.UUID) error {
	return tx.Model(&models.BookingApproval{}).
		Where("booking_id = ? AND status IN ?", bookingID,
			[]models.ApprovalStatus{models.ApprovalPending, models.ApprovalApproved}).
		Update("status", models.ApprovalCancelled).Error
}

func (s *BookingService) Cancel(actor Actor, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	var wasConfirmed bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Resource.Managers").First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("booking not found")
			}
			return err
		}
		if !Can(actor, ActionBookingCancel, &booking, &booking.Resource) {
			return apperror.Forbidden("only the requester or an admin may cancel a booking")
		}
		if !booking.Status.CanTransitionTo(models.BookingCancelled) {
			return apperror.InvalidState(fmt.Sprintf("cannot cancel a booking with status '%s'", booking.Status))
		}
		if booking.Status == models.BookingConfirmed && !booking.EndTime.After(s.now()) {
			return apperror.InvalidState("cannot cancel a booking that has already ended")
		}

		wasConfirmed = booking.Status == models.BookingConfirmed
		booking.Status = models.BookingCancelled
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		return tx.Model(&models.BookingApproval{}).
			Where("booking_id = ? AND status = ?", booking.ID, models.ApprovalPending).
			Update("status", models.ApprovalCancelled).Error
	})
	if err != nil {
		return nil, err
	}

	if wasConfirmed && booking.Resource.RequiresApproval {
		s.notifyManagers(&booking.Resource, "A confirmed booking was cancelled",
			fmt.Sprintf("<h1>Booking Cancelled</h1><p>The booking for %s from %s to %s has been cancelled.</p>",
				booking.Resource.Name, booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339)))
	}
	s.events.PublishBookingEvent("booking.cancelled", booking.ID.String(), booking.ResourceID.String(), string(booking.Status))

	return &booking, nil
}

// Decide records a manager's approval or rejection of a pending booking and
// transitions the booking accordingly.
func (s *BookingService) Decide(actor Actor, bookingID uuid.UUID, decision models.ApprovalStatus, comment *string) (*models.Booking, error) {
	if decision != models.ApprovalApproved && decision != models.ApprovalRejected {
		return nil, apperror.Validation("decision must be 'approved' or 'rejected'")
	}

	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Resource.Managers").Preload("User").First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("booking not found")
			}
			return err
		}
		if booking.Status != models.BookingPending {
			return apperror.InvalidState(fmt.Sprintf("cannot decide a booking with status '%s'", booking.Status))
		}
		if !Can(actor, ActionBookingDecide, &booking, &booking.Resource) {
			return apperror.Forbidden("only a manager of the resource or an admin may decide this booking")
		}

		now := s.now()
		var approval models.BookingApproval
		err := tx.Where("booking_id = ? AND status = ?", booking.ID, models.ApprovalPending).
			Order("created_at desc").First(&approval).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			approval = models.BookingApproval{BookingID: booking.ID}
		} else if err != nil {
			return err
		}

		approval.Status = decision
		approval.ApproverID = &actor.ID
		approval.Comment = comment
		approval.DecisionTime = &now
		if err := tx.Save(&approval).Error; err != nil {
			return err
		}

		next := models.BookingConfirmed
		if decision == models.ApprovalRejected {
			next = models.BookingRejected
		}
		if !booking.Status.CanTransitionTo(next) {
			return apperror.InvalidState(fmt.Sprintf("cannot move booking from '%s' to '%s'", booking.Status, next))
		}
		booking.Status = next
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	subject := "Your booking was approved"
	body := fmt.Sprintf("<h1>Booking Approved</h1><p>Your booking for %s from %s to %s is confirmed.</p>",
		booking.Resource.Name, booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339))
	if booking.Status == models.BookingRejected {
		subject = "Your booking was rejected"
		body = fmt.Sprintf("<h1>Booking Rejected</h1><p>Your booking for %s from %s to %s was rejected.</p>",
			booking.Resource.Name, booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339))
	}
	go s.notifier.Send(booking.User.FullName, booking.User.Email, subject, body)
	s.events.PublishBookingEvent("booking.decided", booking.ID.String(), booking.ResourceID.String(), string(booking.Status))

	return &booking, nil
}

// Get returns a booking with its resource and approval history, after
// checking the actor may see it.
func (s *BookingService) Get(actor Actor, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Resource.Managers").Preload("Approvals").Preload("User").
		First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("booking not found")
		}
		return nil, err
	}
	if !Can(actor, ActionBookingRead, &booking, &booking.Resource) {
		return nil, apperror.Forbidden("not enough permissions to access this booking")
	}
	return &booking, nil
}

type BookingFilter struct {
	ResourceID *uuid.UUID
	Status     *models.BookingStatus
	From       *time.Time
	To         *time.Time
	MineOnly   bool
}

// List returns bookings matching the filter. Non-admin actors only see
// their own bookings plus bookings on resources they manage.
func (s *BookingService) List(actor Actor, filter BookingFilter) ([]models.Booking, error) {
	query := s.db.Preload("Resource").Order("start_time asc")

	if filter.ResourceID != nil {
		query = query.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, apperror.Validation(fmt.Sprintf("unknown booking status '%s'", *filter.Status))
		}
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("end_time > ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_time < ?", *filter.To)
	}

	if filter.MineOnly || !actor.IsAdmin() {
		if filter.MineOnly || !actor.HasRole(models.RoleResourceManager) {
			query = query.Where("user_id = ?", actor.ID)
		} else {
			query = query.Where(
				"user_id = ? OR resource_id IN (?)",
				actor.ID,
				s.db.Table("resource_managers").Select("resource_id").Where("user_id = ?", actor.ID),
			)
		}
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CheckAvailability is the read-only availability probe exposed on
// resources. It never takes locks; the answer is advisory and re-verified
// under lock at booking time.
func (s *BookingService) CheckAvailability(resourceID uuid.UUID, start, end time.Time) (bool, []apperror.ConflictWindow, error) {
	if !end.After(start) {
		return false, nil, apperror.Validation("end_time must be after start_time")
	}
	var resource models.Resource
	if err := s.db.First(&resource, "id = ?", resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, apperror.NotFound("resource not found")
		}
		return false, nil, err
	}

	conflicts, err := s.availability.FindConflicts(s.db, resourceID, start, end, uuid.Nil)
	if err != nil {
		return false, nil, err
	}
	return len(conflicts) == 0, sanitizeConflicts(conflicts), nil
}

func (s *BookingService) notifyManagers(resource *models.Resource, subject, body string) {
	for _, m := range resource.Managers {
		go s.notifier.Send(m.FullName, m.Email, subject, body)
	}
}
