package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBookingStatusTransitions(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingRejected, BookingCancelled, BookingCompleted}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingPending:   {BookingConfirmed: true, BookingRejected: true, BookingCancelled: true},
		BookingConfirmed: {BookingCancelled: true, BookingCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %t, want %t", from, to, got, want)
			}
		}
	}
}

func TestBookingStatusPredicates(t *testing.T) {
	if !BookingPending.IsBlocking() || !BookingConfirmed.IsBlocking() {
		t.Error("pending and confirmed must block availability")
	}
	for _, s := range []BookingStatus{BookingRejected, BookingCancelled, BookingCompleted} {
		if s.IsBlocking() {
			t.Errorf("%s must not block availability", s)
		}
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
	if BookingPending.Terminal() || BookingConfirmed.Terminal() {
		t.Error("pending and confirmed are not terminal")
	}
	if !BookingPending.Valid() {
		t.Error("pending is a valid status")
	}
	if BookingStatus("archived").Valid() {
		t.Error("unknown statuses are invalid")
	}
}

func TestBookingOverlapsHalfOpen(t *testing.T) {
	resource := uuid.New()
	base := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	mk := func(res uuid.UUID, startOffset, endOffset time.Duration) *Booking {
		return &Booking{ResourceID: res, StartTime: base.Add(startOffset), EndTime: base.Add(endOffset)}
	}

	a := mk(resource, 0, time.Hour)

	if !a.Overlaps(mk(resource, 30*time.Minute, 90*time.Minute)) {
		t.Error("partial overlap must collide")
	}
	if !a.Overlaps(mk(resource, -time.Hour, 2*time.Hour)) {
		t.Error("containing window must collide")
	}
	if a.Overlaps(mk(resource, time.Hour, 2*time.Hour)) {
		t.Error("back-to-back windows must not collide")
	}
	if a.Overlaps(mk(resource, -time.Hour, 0)) {
		t.Error("window ending at our start must not collide")
	}
	if a.Overlaps(mk(uuid.New(), 0, time.Hour)) {
		t.Error("different resources never collide")
	}
}
