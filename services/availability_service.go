package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/srr-project/srr-backend/models"
)

// AvailabilityService answers whether a proposed window on a resource
// collides with existing blocking bookings. It is a pure query: no writes,
// no business errors. Callers run it inside the same transaction as the
// write that acts on its answer so both see one snapshot.
type AvailabilityService struct{}

func NewAvailabilityService() *AvailabilityService {
	return &AvailabilityService{}
}

// Overlaps implements the half-open interval test: [s1,e1) and [s2,e2)
// collide iff s1 < e2 && e1 > s2. Back-to-back windows do not collide.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// FindConflicts returns every pending or confirmed booking on the resource
// whose window overlaps [start, end). Rejected and cancelled bookings never
// block; completed ones cannot, since past-dated windows are refused at
// validation. excludeID skips a booking's own row so it can be moved
// without self-conflicting; pass uuid.Nil when creating.
func (s *AvailabilityService) FindConflicts(tx *gorm.DB, resourceID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]models.Booking, error) {
	query := tx.
		Where("resource_id = ?", resourceID).
		Where("status IN ?", []models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
		Where("start_time < ? AND end_time > ?", end, start).
		Order("start_time asc")

	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var conflicts []models.Booking
	if err := query.Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (s *AvailabilityService) IsAvailable(tx *gorm.DB, resourceID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	conflicts, err := s.FindConflicts(tx, resourceID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
