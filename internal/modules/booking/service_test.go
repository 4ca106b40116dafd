package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"shugly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = "b-999" // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListPendingForWorker(ctx context.Context, workerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Transition(ctx context.Context, id string, from, to domain.BookingStatus, adminApproved *bool) (*domain.Booking, error) {
	args := m.Called(ctx, id, from, to, adminApproved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Counts(ctx context.Context, f domain.BookingFilter) (domain.BookingCounts, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.BookingCounts), args.Error(1)
}

type MockWorkerReader struct {
	mock.Mock
}

func (m *MockWorkerReader) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingCreated(ctx context.Context, b *domain.Booking) {
	m.Called(ctx, b)
}

func (m *MockNotifier) BookingStatusChanged(ctx context.Context, b *domain.Booking, actor domain.UserRole) {
	m.Called(ctx, b, actor)
}

type fixture struct {
	bookings *MockBookingRepository
	workers  *MockWorkerReader
	users    *MockUserReader
	notifier *MockNotifier
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		bookings: new(MockBookingRepository),
		workers:  new(MockWorkerReader),
		users:    new(MockUserReader),
		notifier: new(MockNotifier),
	}
	f.service = NewService(f.bookings, f.workers, f.users, f.notifier)
	f.service.now = func() time.Time { return time.Date(2030, 1, 10, 15, 0, 0, 0, time.Local) }
	return f
}

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		WorkerID: "w-1",
		Service:  "طبخ",
		Date:     "2030-01-12",
		Time:     "10:00",
		Duration: 3,
	}
}

func workerUser(id string, role domain.UserRole) *domain.User {
	return &domain.User{ID: id, Name: id, Role: role}
}

func TestCreate_PricesFromHourlyRate(t *testing.T) {
	f := newFixture()
	w := domain.NewWorker("w-1")
	f.workers.On("GetByID", mock.Anything, "w-1").Return(w, nil)
	f.users.On("GetByID", mock.Anything, "w-1").Return(workerUser("w-1", domain.RoleWorker), nil)
	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingPending && !b.AdminApproved && b.TotalPrice == 150
	})).Return(nil)
	f.notifier.On("BookingCreated", mock.Anything, mock.Anything).Return()

	b, err := f.service.Create(context.Background(), "c-1", validRequest())

	require.NoError(t, err)
	assert.Equal(t, "b-999", b.ID)
	assert.Equal(t, 150.0, b.TotalPrice)
	assert.Equal(t, "c-1", b.CustomerID)
	f.bookings.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreate_TodayIsAllowed(t *testing.T) {
	f := newFixture()
	f.workers.On("GetByID", mock.Anything, "w-1").Return(domain.NewWorker("w-1"), nil)
	f.users.On("GetByID", mock.Anything, "w-1").Return(workerUser("w-1", domain.RoleWorker), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("BookingCreated", mock.Anything, mock.Anything).Return()

	req := validRequest()
	req.Date = "2030-01-10"
	_, err := f.service.Create(context.Background(), "c-1", req)
	assert.NoError(t, err)
}

func TestCreate_Rejections(t *testing.T) {
	unavailable := domain.NewWorker("w-off")
	unavailable.Availability = false

	specialist := domain.NewWorker("w-spec")
	specialist.Services = []string{"كوي الملابس"}

	tests := []struct {
		name    string
		mutate  func(*CreateBookingRequest)
		wantErr error
	}{
		{name: "date in past", mutate: func(r *CreateBookingRequest) { r.Date = "2030-01-09" }, wantErr: ErrDateInPast},
		{name: "malformed date", mutate: func(r *CreateBookingRequest) { r.Date = "12/01/2030" }, wantErr: ErrInvalidDate},
		{name: "slot off the hour", mutate: func(r *CreateBookingRequest) { r.Time = "10:30" }, wantErr: ErrInvalidSlot},
		{name: "duration not offered", mutate: func(r *CreateBookingRequest) { r.Duration = 7 }, wantErr: ErrInvalidSlot},
		{name: "unknown worker", mutate: func(r *CreateBookingRequest) { r.WorkerID = "ghost" }, wantErr: ErrWorkerNotFound},
		{name: "worker unavailable", mutate: func(r *CreateBookingRequest) { r.WorkerID = "w-off" }, wantErr: ErrWorkerUnavailable},
		{name: "worker demoted to customer", mutate: func(r *CreateBookingRequest) { r.WorkerID = "w-demoted" }, wantErr: ErrWorkerUnavailable},
		{name: "service not offered", mutate: func(r *CreateBookingRequest) { r.WorkerID = "w-spec" }, wantErr: ErrServiceNotOffered},
		{name: "outside default services", mutate: func(r *CreateBookingRequest) { r.Service = "كوي الملابس" }, wantErr: ErrServiceNotOffered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.workers.On("GetByID", mock.Anything, "w-1").Return(domain.NewWorker("w-1"), nil).Maybe()
			f.workers.On("GetByID", mock.Anything, "w-off").Return(unavailable, nil).Maybe()
			f.workers.On("GetByID", mock.Anything, "w-spec").Return(specialist, nil).Maybe()
			f.workers.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound).Maybe()
			f.workers.On("GetByID", mock.Anything, "w-demoted").Return(domain.NewWorker("w-demoted"), nil).Maybe()
			f.users.On("GetByID", mock.Anything, "w-1").Return(workerUser("w-1", domain.RoleWorker), nil).Maybe()
			f.users.On("GetByID", mock.Anything, "w-spec").Return(workerUser("w-spec", domain.RoleWorker), nil).Maybe()
			f.users.On("GetByID", mock.Anything, "w-demoted").Return(workerUser("w-demoted", domain.RoleCustomer), nil).Maybe()

			req := validRequest()
			tt.mutate(&req)
			_, err := f.service.Create(context.Background(), "c-1", req)

			assert.ErrorIs(t, err, tt.wantErr)
			f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAct_StaleWriteIsConflict(t *testing.T) {
	f := newFixture()
	b := &domain.Booking{ID: "b-1", CustomerID: "c-1", WorkerID: "w-1", Status: domain.BookingPending}
	f.bookings.On("GetByID", mock.Anything, "b-1").Return(b, nil)
	f.bookings.On("Transition", mock.Anything, "b-1", domain.BookingPending, domain.BookingAccepted, (*bool)(nil)).
		Return(nil, domain.ErrStale)

	_, err := f.service.Act(context.Background(), Actor{UserID: "w-1", Role: domain.RoleWorker}, "b-1", ActionAccept)

	assert.ErrorIs(t, err, ErrBookingConflict)
	f.notifier.AssertNotCalled(t, "BookingStatusChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestAct_Ownership(t *testing.T) {
	f := newFixture()
	b := &domain.Booking{ID: "b-1", CustomerID: "c-1", WorkerID: "w-1", Status: domain.BookingPending}
	f.bookings.On("GetByID", mock.Anything, "b-1").Return(b, nil)

	_, err := f.service.Act(context.Background(), Actor{UserID: "c-2", Role: domain.RoleCustomer}, "b-1", ActionCancel)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.Act(context.Background(), Actor{UserID: "w-2", Role: domain.RoleWorker}, "b-1", ActionAccept)
	assert.ErrorIs(t, err, ErrForbidden)

	f.bookings.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAct_AdminApproveSetsFlagAndNotifies(t *testing.T) {
	f := newFixture()
	b := &domain.Booking{ID: "b-1", CustomerID: "c-1", WorkerID: "w-1", Status: domain.BookingPending}
	after := *b
	after.Status = domain.BookingAccepted
	after.AdminApproved = true

	f.bookings.On("GetByID", mock.Anything, "b-1").Return(b, nil)
	f.bookings.On("Transition", mock.Anything, "b-1", domain.BookingPending, domain.BookingAccepted,
		mock.MatchedBy(func(v *bool) bool { return v != nil && *v })).Return(&after, nil)
	f.notifier.On("BookingStatusChanged", mock.Anything, &after, domain.RoleAdmin).Return()

	got, err := f.service.Act(context.Background(), Actor{UserID: "admin", Role: domain.RoleAdmin}, "b-1", ActionApprove)

	require.NoError(t, err)
	assert.True(t, got.AdminApproved)
	f.notifier.AssertExpectations(t)
}

func TestAct_NotFoundAndStoreErrors(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	f.bookings.On("GetByID", mock.Anything, "broken").Return(nil, errors.New("connection reset"))

	admin := Actor{UserID: "admin", Role: domain.RoleAdmin}
	_, err := f.service.Act(context.Background(), admin, "missing", ActionApprove)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.service.Act(context.Background(), admin, "broken", ActionApprove)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestListMine_FiltersByRole(t *testing.T) {
	f := newFixture()
	list := []domain.Booking{{ID: "b-1", CustomerID: "c-1", WorkerID: "w-1", Status: domain.BookingPending}}
	f.bookings.On("List", mock.Anything, domain.BookingFilter{WorkerID: "w-1"}).Return(list, nil)
	f.users.On("ListByIDs", mock.Anything, []string{"c-1", "w-1"}).Return([]domain.User{
		{ID: "c-1", Name: "Zainab"},
		{ID: "w-1", Name: "Ali"},
	}, nil)

	views, err := f.service.ListMine(context.Background(), Actor{UserID: "w-1", Role: domain.RoleWorker})

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Zainab", views[0].CustomerName)
	assert.Equal(t, "Ali", views[0].WorkerName)
	assert.Equal(t, []Action{ActionAccept, ActionReject}, views[0].Actions)

	_, err = f.service.ListMine(context.Background(), Actor{UserID: "admin", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)
}
