// Package notification delivers push notifications to user devices.
package notification

import (
	"context"
	"log/slog"
)

// Notification type constants carried in the push data payload.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingAccepted  = "booking.accepted"
	TypeBookingRejected  = "booking.rejected"
	TypeBookingCompleted = "booking.completed"
	TypeBookingCancelled = "booking.cancelled"
	TypeReviewPosted     = "review.posted"
	TypeNewMessage       = "chat.message"
)

type Push struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

type Sender interface {
	Send(ctx context.Context, p Push) error
}

// LogSender only logs; it is used when FCM credentials are not configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, p Push) error {
	slog.DebugContext(ctx, "push notification skipped, fcm disabled", "title", p.Title, "type", p.Data["type"])
	return nil
}
