package booking

import (
	"testing"

	"shugly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.BookingStatus
		role     domain.UserRole
		action   Action
		to       domain.BookingStatus
		approved *bool
		wantErr  bool
	}{
		{name: "customer cancels pending", from: domain.BookingPending, role: domain.RoleCustomer, action: ActionCancel, to: domain.BookingCancelled},
		{name: "worker accepts pending", from: domain.BookingPending, role: domain.RoleWorker, action: ActionAccept, to: domain.BookingAccepted},
		{name: "worker rejects pending", from: domain.BookingPending, role: domain.RoleWorker, action: ActionReject, to: domain.BookingRejected},
		{name: "worker completes accepted", from: domain.BookingAccepted, role: domain.RoleWorker, action: ActionComplete, to: domain.BookingCompleted},
		{name: "admin approves pending", from: domain.BookingPending, role: domain.RoleAdmin, action: ActionApprove, to: domain.BookingAccepted, approved: &approved},
		{name: "admin rejects pending", from: domain.BookingPending, role: domain.RoleAdmin, action: ActionReject, to: domain.BookingRejected, approved: &notApproved},
		{name: "admin rejects accepted", from: domain.BookingAccepted, role: domain.RoleAdmin, action: ActionReject, to: domain.BookingRejected, approved: &notApproved},

		{name: "customer cannot cancel accepted", from: domain.BookingAccepted, role: domain.RoleCustomer, action: ActionCancel, wantErr: true},
		{name: "worker cannot accept cancelled", from: domain.BookingCancelled, role: domain.RoleWorker, action: ActionAccept, wantErr: true},
		{name: "admin cannot reject completed", from: domain.BookingCompleted, role: domain.RoleAdmin, action: ActionReject, wantErr: true},
		{name: "worker cannot complete pending", from: domain.BookingPending, role: domain.RoleWorker, action: ActionComplete, wantErr: true},
		{name: "customer cannot accept", from: domain.BookingPending, role: domain.RoleCustomer, action: ActionAccept, wantErr: true},
		{name: "worker cannot approve", from: domain.BookingPending, role: domain.RoleWorker, action: ActionApprove, wantErr: true},
		{name: "admin cannot cancel", from: domain.BookingPending, role: domain.RoleAdmin, action: ActionCancel, wantErr: true},
		{name: "admin cannot approve accepted", from: domain.BookingAccepted, role: domain.RoleAdmin, action: ActionApprove, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.role, tt.action)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.To)
			if tt.approved == nil {
				assert.Nil(t, got.AdminApproved)
			} else {
				require.NotNil(t, got.AdminApproved)
				assert.Equal(t, *tt.approved, *got.AdminApproved)
			}
		})
	}
}

func TestTerminalStatesHaveNoActions(t *testing.T) {
	roles := []domain.UserRole{domain.RoleCustomer, domain.RoleWorker, domain.RoleAdmin}
	for _, status := range domain.BookingStatuses {
		if !status.Terminal() {
			continue
		}
		for _, role := range roles {
			assert.Empty(t, AvailableActions(status, role), "%s/%s", status, role)
		}
	}
}

func TestAvailableActions(t *testing.T) {
	assert.Equal(t, []Action{ActionApprove, ActionReject}, AvailableActions(domain.BookingPending, domain.RoleAdmin))
	assert.Equal(t, []Action{ActionAccept, ActionReject}, AvailableActions(domain.BookingPending, domain.RoleWorker))
	assert.Equal(t, []Action{ActionComplete}, AvailableActions(domain.BookingAccepted, domain.RoleWorker))
	assert.Equal(t, []Action{ActionCancel}, AvailableActions(domain.BookingPending, domain.RoleCustomer))
	assert.Empty(t, AvailableActions(domain.BookingAccepted, domain.RoleCustomer))
}
