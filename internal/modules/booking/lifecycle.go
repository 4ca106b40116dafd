package booking

import "shugly/internal/domain"

type Action string

const (
	ActionCancel   Action = "cancel"
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionApprove  Action = "approve"
)

type transitionKey struct {
	from   domain.BookingStatus
	role   domain.UserRole
	action Action
}

// Transition is the outcome of one lifecycle step. A nil AdminApproved leaves the flag as it is.
type Transition struct {
	To            domain.BookingStatus
	AdminApproved *bool
}

var (
	approved    = true
	notApproved = false
)

// transitions is the complete lifecycle. Terminal states have no rows.
var transitions = map[transitionKey]Transition{
	{domain.BookingPending, domain.RoleCustomer, ActionCancel}:  {To: domain.BookingCancelled},
	{domain.BookingPending, domain.RoleWorker, ActionAccept}:    {To: domain.BookingAccepted},
	{domain.BookingPending, domain.RoleWorker, ActionReject}:    {To: domain.BookingRejected},
	{domain.BookingAccepted, domain.RoleWorker, ActionComplete}: {To: domain.BookingCompleted},
	{domain.BookingPending, domain.RoleAdmin, ActionApprove}:    {To: domain.BookingAccepted, AdminApproved: &approved},
	{domain.BookingPending, domain.RoleAdmin, ActionReject}:     {To: domain.BookingRejected, AdminApproved: &notApproved},
	{domain.BookingAccepted, domain.RoleAdmin, ActionReject}:    {To: domain.BookingRejected, AdminApproved: &notApproved},
}

// Next looks up the step for (from, role, action).
func Next(from domain.BookingStatus, role domain.UserRole, action Action) (Transition, error) {
	t, ok := transitions[transitionKey{from: from, role: role, action: action}]
	if !ok {
		return Transition{}, ErrInvalidTransition
	}
	return t, nil
}

var actionOrder = []Action{ActionApprove, ActionAccept, ActionComplete, ActionReject, ActionCancel}

// AvailableActions lists what role may do to a booking in status from, in a stable order.
func AvailableActions(from domain.BookingStatus, role domain.UserRole) []Action {
	actions := []Action{}
	for _, a := range actionOrder {
		if _, ok := transitions[transitionKey{from: from, role: role, action: a}]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}
