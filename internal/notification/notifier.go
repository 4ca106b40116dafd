package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shugly/internal/domain"
)

const sendTimeout = 5 * time.Second

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Notifier turns domain events into pushes for the affected user. Delivery failures are
// logged and never fail the operation that triggered them.
type Notifier struct {
	users  UserLookup
	sender Sender
}

func NewNotifier(users UserLookup, sender Sender) *Notifier {
	if sender == nil {
		sender = LogSender{}
	}
	return &Notifier{users: users, sender: sender}
}

func (n *Notifier) BookingCreated(ctx context.Context, b *domain.Booking) {
	n.notify(ctx, b.WorkerID, "New booking request",
		fmt.Sprintf("%s on %s at %s (%dh)", b.Service, b.Date, b.Time, b.Duration),
		map[string]string{"type": TypeBookingCreated, "booking_id": b.ID})
}

// BookingStatusChanged notifies the counterpart of whoever acted. Admin decisions reach both sides.
func (n *Notifier) BookingStatusChanged(ctx context.Context, b *domain.Booking, actor domain.UserRole) {
	typ := bookingEventType(b.Status)
	if typ == "" {
		return
	}
	title := "Booking " + string(b.Status)
	body := fmt.Sprintf("%s on %s at %s", b.Service, b.Date, b.Time)
	data := map[string]string{"type": typ, "booking_id": b.ID, "status": string(b.Status)}

	switch actor {
	case domain.RoleCustomer:
		n.notify(ctx, b.WorkerID, title, body, data)
	case domain.RoleWorker:
		n.notify(ctx, b.CustomerID, title, body, data)
	default:
		n.notify(ctx, b.CustomerID, title, body, data)
		n.notify(ctx, b.WorkerID, title, body, data)
	}
}

func (n *Notifier) ReviewPosted(ctx context.Context, r *domain.Review) {
	n.notify(ctx, r.WorkerID, "New review",
		fmt.Sprintf("You received a %d-star review", r.Rating),
		map[string]string{"type": TypeReviewPosted, "review_id": r.ID})
}

func (n *Notifier) NewMessage(ctx context.Context, m *domain.Message, senderName string) {
	n.notify(ctx, m.ReceiverID, "New message from "+senderName, truncate(m.Text, 120),
		map[string]string{"type": TypeNewMessage, "conversation_id": m.ConversationID})
}

func (n *Notifier) notify(ctx context.Context, userID, title, body string, data map[string]string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	u, err := n.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "push recipient lookup failed", "user_id", userID, "error", err)
		}
		return
	}
	if u.DeviceToken == "" {
		return
	}

	if err := n.sender.Send(ctx, Push{Token: u.DeviceToken, Title: title, Body: body, Data: data}); err != nil {
		slog.WarnContext(ctx, "push delivery failed", "user_id", userID, "type", data["type"], "error", err)
	}
}

func bookingEventType(s domain.BookingStatus) string {
	switch s {
	case domain.BookingAccepted:
		return TypeBookingAccepted
	case domain.BookingRejected:
		return TypeBookingRejected
	case domain.BookingCompleted:
		return TypeBookingCompleted
	case domain.BookingCancelled:
		return TypeBookingCancelled
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
