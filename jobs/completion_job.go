package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/srr-project/srr-backend/models"
	"github.com/srr-project/srr-backend/services"
)

// CompletionJob is the periodic sweep that moves confirmed bookings whose
// end time has passed to completed. This is the one place that transition
// happens; reads never derive it on the fly, so the status can only move
// once.
type CompletionJob struct {
	db     *gorm.DB
	events services.EventSink

	now func() time.Time
}

func NewCompletionJob(db *gorm.DB, events services.EventSink) *CompletionJob {
	if events == nil {
		events = services.NoopEventSink
	}
	return &CompletionJob{db: db, events: events, now: time.Now}
}

func (j *CompletionJob) Run() {
	log.Println("Running job: MarkCompletedBookings...")

	var expired []models.Booking
	err := j.db.
		Where("status = ? AND end_time <= ?", models.BookingConfirmed, j.now()).
		Find(&expired).Error
	if err != nil {
		log.Printf("Error finding expired bookings: %v", err)
		return
	}

	if len(expired) == 0 {
		log.Println("No bookings to complete.")
		return
	}

	completed := 0
	for _, booking := range expired {
		done, err := j.complete(&booking)
		if err != nil {
			log.Printf("Error completing booking %s: %v", booking.ID, err)
			continue
		}
		if !done {
			continue
		}
		completed++
		j.events.PublishBookingEvent("booking.completed", booking.ID.String(), booking.ResourceID.String(), string(models.BookingCompleted))
	}

	log.Printf("Marked %d booking(s) as completed.", completed)
}

// complete performs the guarded transition. The status predicate in the
// UPDATE means a cancellation committed after the sweep's read wins; the
// sweep just skips that row.
func (j *CompletionJob) complete(booking *models.Booking) (bool, error) {
	res := j.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, models.BookingConfirmed).
		Update("status", models.BookingCompleted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
