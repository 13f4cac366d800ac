package jobs

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/srr-project/srr-backend/models"
	"github.com/srr-project/srr-backend/services"
)

// ReminderJob mails requesters of confirmed bookings starting within the
// next hour. ReminderSentAt keeps the sweep idempotent between runs.
type ReminderJob struct {
	db       *gorm.DB
	notifier services.Notifier

	now func() time.Time
}

func NewReminderJob(db *gorm.DB, notifier services.Notifier) *ReminderJob {
	if notifier == nil {
		notifier = services.NoopNotifier
	}
	return &ReminderJob{db: db, notifier: notifier, now: time.Now}
}

func (j *ReminderJob) Run() {
	log.Println("Running job: SendBookingReminders...")

	now := j.now()
	var upcoming []models.Booking
	err := j.db.
		Preload("User").
		Preload("Resource").
		Where("status = ?", models.BookingConfirmed).
		Where("start_time > ? AND start_time <= ?", now, now.Add(time.Hour)).
		Where("reminder_sent_at IS NULL").
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error finding upcoming bookings: %v", err)
		return
	}

	if len(upcoming) == 0 {
		log.Println("No reminders to send.")
		return
	}

	for _, booking := range upcoming {
		j.notifier.Send(
			booking.User.FullName,
			booking.User.Email,
			"Upcoming booking reminder",
			fmt.Sprintf("<h1>Reminder</h1><p>Your booking for %s starts at %s.</p>",
				booking.Resource.Name, booking.StartTime.Format(time.RFC3339)),
		)
		sentAt := now
		booking.ReminderSentAt = &sentAt
		if err := j.db.Save(&booking).Error; err != nil {
			log.Printf("Error stamping reminder for booking %s: %v", booking.ID, err)
		}
	}

	log.Printf("Sent %d booking reminder(s).", len(upcoming))
}
