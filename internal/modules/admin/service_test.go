package admin

import (
	"context"
	"errors"
	"testing"

	"shugly/internal/domain"
	"shugly/internal/modules/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, role domain.UserRole) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) Create(ctx context.Context, w *domain.Worker) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWorkerRepository) ListAll(ctx context.Context) ([]domain.Worker, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	return m.Called(ctx, id, available).Error(0)
}

func (m *MockWorkerRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Counts(ctx context.Context, f domain.BookingFilter) (domain.BookingCounts, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.BookingCounts), args.Error(1)
}

func (m *MockBookingStore) BackfillAdminApproved(ctx context.Context, batchSize int) (int64, error) {
	args := m.Called(ctx, batchSize)
	return args.Get(0).(int64), args.Error(1)
}

type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) ListAll(ctx context.Context, status domain.BookingStatus) ([]booking.BookingView, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]booking.BookingView), args.Error(1)
}

func (m *MockLifecycle) Act(ctx context.Context, actor booking.Actor, id string, action booking.Action) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type mocks struct {
	users     *MockUserRepository
	workers   *MockWorkerRepository
	bookings  *MockBookingStore
	lifecycle *MockLifecycle
}

func newTestService() (*Service, *mocks) {
	m := &mocks{
		users:     new(MockUserRepository),
		workers:   new(MockWorkerRepository),
		bookings:  new(MockBookingStore),
		lifecycle: new(MockLifecycle),
	}
	return NewService(m.users, m.workers, m.bookings, m.lifecycle), m
}

func TestChangeRole_PromoteCreatesWorkerRecord(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	m.users.On("UpdateRole", ctx, "u-1", domain.RoleWorker).Return(nil)
	m.workers.On("GetByID", ctx, "u-1").Return(nil, domain.ErrNotFound)
	m.workers.On("Create", ctx, mock.MatchedBy(func(w *domain.Worker) bool {
		return w.ID == "u-1" && w.Availability && w.Rating == 0
	})).Return(nil)
	m.users.On("GetByID", ctx, "u-1").Return(&domain.User{ID: "u-1", Role: domain.RoleWorker}, nil)

	u, err := svc.ChangeRole(ctx, "admin-1", "u-1", domain.RoleWorker)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleWorker, u.Role)
	m.workers.AssertExpectations(t)
}

func TestChangeRole_DemoteHidesWorkerRecord(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	m.users.On("UpdateRole", ctx, "u-1", domain.RoleCustomer).Return(nil)
	m.workers.On("SetAvailability", ctx, "u-1", false).Return(nil)
	m.users.On("GetByID", ctx, "u-1").Return(&domain.User{ID: "u-1", Role: domain.RoleCustomer}, nil)

	_, err := svc.ChangeRole(ctx, "admin-1", "u-1", domain.RoleCustomer)

	require.NoError(t, err)
	m.workers.AssertExpectations(t)
	m.workers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	m.workers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChangeRole_NonWorkerWithoutRecord(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	m.users.On("UpdateRole", ctx, "u-2", domain.RoleAdmin).Return(nil)
	m.workers.On("SetAvailability", ctx, "u-2", false).Return(domain.ErrNotFound)
	m.users.On("GetByID", ctx, "u-2").Return(&domain.User{ID: "u-2", Role: domain.RoleAdmin}, nil)

	u, err := svc.ChangeRole(ctx, "admin-1", "u-2", domain.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestChangeRole_Rejections(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	_, err := svc.ChangeRole(ctx, "admin-1", "admin-1", domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrSelfChange)

	_, err = svc.ChangeRole(ctx, "admin-1", "u-1", domain.UserRole("owner"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	m.users.On("UpdateRole", ctx, "ghost", domain.RoleAdmin).Return(domain.ErrNotFound)
	_, err = svc.ChangeRole(ctx, "admin-1", "ghost", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApproveAndReject_UseAdminActor(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	admin := booking.Actor{UserID: "admin-1", Role: domain.RoleAdmin}

	m.lifecycle.On("Act", ctx, admin, "b-1", booking.ActionApprove).
		Return(&domain.Booking{ID: "b-1", Status: domain.BookingAccepted, AdminApproved: true}, nil)
	m.lifecycle.On("Act", ctx, admin, "b-2", booking.ActionReject).
		Return(nil, booking.ErrInvalidTransition)

	b, err := svc.ApproveBooking(ctx, "admin-1", "b-1")
	require.NoError(t, err)
	assert.True(t, b.AdminApproved)

	_, err = svc.RejectBooking(ctx, "admin-1", "b-2")
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)
}

func TestListBookings_InvalidStatus(t *testing.T) {
	svc, m := newTestService()

	_, err := svc.ListBookings(context.Background(), domain.BookingStatus("lost"))

	assert.ErrorIs(t, err, ErrInvalidStatus)
	m.lifecycle.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything)
}

func TestStats(t *testing.T) {
	svc, m := newTestService()

	m.users.On("Count", mock.Anything, domain.UserRole("")).Return(int64(10), nil)
	m.users.On("Count", mock.Anything, domain.RoleCustomer).Return(int64(6), nil)
	m.users.On("Count", mock.Anything, domain.RoleWorker).Return(int64(3), nil)
	m.users.On("Count", mock.Anything, domain.RoleAdmin).Return(int64(1), nil)
	m.bookings.On("Counts", mock.Anything, domain.BookingFilter{}).
		Return(domain.BookingCounts{Total: 4, Completed: 2, Revenue: 300}, nil)

	st, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(10), st.Users)
	assert.Equal(t, int64(6), st.Customers)
	assert.Equal(t, int64(3), st.Workers)
	assert.Equal(t, int64(1), st.Admins)
	assert.Equal(t, int64(4), st.Bookings.Total)
	assert.Equal(t, 300.0, st.Revenue)
}

func TestStats_FailsWhenAnyCounterFails(t *testing.T) {
	svc, m := newTestService()

	m.users.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)
	m.bookings.On("Counts", mock.Anything, mock.Anything).Return(domain.BookingCounts{}, errors.New("db down"))

	_, err := svc.Stats(context.Background())

	assert.Error(t, err)
}

func TestRepairWorkers(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	m.users.On("List", ctx, domain.RoleWorker).Return([]domain.User{{ID: "w-ok"}, {ID: "w-missing"}, {ID: "w-broken"}}, nil)
	m.workers.On("GetByID", ctx, "w-ok").Return(domain.NewWorker("w-ok"), nil)
	m.workers.On("GetByID", ctx, "w-missing").Return(nil, domain.ErrNotFound)
	m.workers.On("GetByID", ctx, "w-broken").Return(nil, errors.New("timeout"))
	m.workers.On("Create", ctx, mock.MatchedBy(func(w *domain.Worker) bool { return w.ID == "w-missing" })).Return(nil)

	report, err := svc.RepairWorkers(ctx)

	require.NoError(t, err)
	assert.Equal(t, RepairReport{Checked: 3, Created: 1, Failed: 1}, report)
}

func TestBackfillAdminApproved(t *testing.T) {
	svc, m := newTestService()
	m.bookings.On("BackfillAdminApproved", mock.Anything, backfillBatchSize).Return(int64(7), nil)

	report, err := svc.BackfillAdminApproved(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), report.Updated)
}
