package services

// Notifier is the fire-and-forget sink for human-attention events. The
// email implementation lives in the notifications package; tests pass a
// no-op.
type Notifier interface {
	Send(toName, toEmail, subject, htmlContent string)
}

type noopNotifier struct{}

func (noopNotifier) Send(toName, toEmail, subject, htmlContent string) {}

// NoopNotifier is used when no email service is configured.
var NoopNotifier Notifier = noopNotifier{}

// EventSink receives booking lifecycle events for live listeners (the
// websocket hub). Implementations must not block.
type EventSink interface {
	PublishBookingEvent(event string, bookingID string, resourceID string, status string)
}

type noopEventSink struct{}

func (noopEventSink) PublishBookingEvent(event, bookingID, resourceID, status string) {}

var NoopEventSink EventSink = noopEventSink{}
