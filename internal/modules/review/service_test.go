package review

import (
	"context"
	"errors"
	"testing"

	"shugly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReviews struct {
	mock.Mock
}

func (m *mockReviews) Create(ctx context.Context, rv *domain.Review) error {
	args := m.Called(ctx, rv)
	if args.Error(0) == nil {
		rv.ID = "r-1"
	}
	return args.Error(0)
}

func (m *mockReviews) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviews) ListByWorker(ctx context.Context, workerID string) ([]domain.Review, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type mockRatings struct {
	mock.Mock
}

func (m *mockRatings) ApplyReview(ctx context.Context, id string, rating int) error {
	return m.Called(ctx, id, rating).Error(0)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.User), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) ReviewPosted(ctx context.Context, r *domain.Review) {
	m.Called(ctx, r)
}

type fixture struct {
	reviews  *mockReviews
	bookings *mockBookings
	ratings  *mockRatings
	users    *mockUsers
	notifier *mockNotifier
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		reviews:  new(mockReviews),
		bookings: new(mockBookings),
		ratings:  new(mockRatings),
		users:    new(mockUsers),
		notifier: new(mockNotifier),
	}
	f.svc = NewService(f.reviews, f.bookings, f.ratings, f.users, f.notifier)
	return f
}

func completedBooking() *domain.Booking {
	return &domain.Booking{ID: "b-1", CustomerID: "c-1", WorkerID: "w-1", Status: domain.BookingCompleted}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, "b-1").Return(completedBooking(), nil)
	f.reviews.On("ExistsForBooking", mock.Anything, "b-1").Return(false, nil)
	f.reviews.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.ratings.On("ApplyReview", mock.Anything, "w-1", 5).Return(nil)
	f.notifier.On("ReviewPosted", mock.Anything, mock.Anything).Return()

	rv, err := f.svc.Create(context.Background(), "c-1", CreateReviewRequest{BookingID: "b-1", Rating: 5, Comment: "ممتاز"})

	require.NoError(t, err)
	assert.Equal(t, "r-1", rv.ID)
	assert.Equal(t, "w-1", rv.WorkerID)
	f.ratings.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreate_Rejections(t *testing.T) {
	pending := completedBooking()
	pending.Status = domain.BookingAccepted

	tests := []struct {
		name    string
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name: "missing booking",
			setup: func(f *fixture) {
				f.bookings.On("GetByID", mock.Anything, "b-1").Return(nil, domain.ErrNotFound)
			},
			wantErr: ErrBookingNotFound,
		},
		{
			name: "not completed",
			setup: func(f *fixture) {
				f.bookings.On("GetByID", mock.Anything, "b-1").Return(pending, nil)
			},
			wantErr: ErrReviewNotAllowed,
		},
		{
			name: "already reviewed",
			setup: func(f *fixture) {
				f.bookings.On("GetByID", mock.Anything, "b-1").Return(completedBooking(), nil)
				f.reviews.On("ExistsForBooking", mock.Anything, "b-1").Return(true, nil)
			},
			wantErr: ErrAlreadyReviewed,
		},
		{
			name: "lost insert race",
			setup: func(f *fixture) {
				f.bookings.On("GetByID", mock.Anything, "b-1").Return(completedBooking(), nil)
				f.reviews.On("ExistsForBooking", mock.Anything, "b-1").Return(false, nil)
				f.reviews.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)
			},
			wantErr: ErrAlreadyReviewed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			_, err := f.svc.Create(context.Background(), "c-1", CreateReviewRequest{BookingID: "b-1", Rating: 4})

			assert.ErrorIs(t, err, tt.wantErr)
			f.ratings.AssertNotCalled(t, "ApplyReview", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_OtherCustomersBooking(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, "b-1").Return(completedBooking(), nil)

	_, err := f.svc.Create(context.Background(), "c-2", CreateReviewRequest{BookingID: "b-1", Rating: 4})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListByWorker(t *testing.T) {
	f := newFixture()
	f.reviews.On("ListByWorker", mock.Anything, "w-1").Return([]domain.Review{
		{ID: "r-2", CustomerID: "c-2", Rating: 4},
		{ID: "r-1", CustomerID: "c-1", Rating: 5},
	}, nil)
	f.users.On("ListByIDs", mock.Anything, []string{"c-2", "c-1"}).Return([]domain.User{{ID: "c-1", Name: "Zainab"}}, nil)

	list, err := f.svc.ListByWorker(context.Background(), "w-1")

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Empty(t, list[0].CustomerName)
	assert.Equal(t, "Zainab", list[1].CustomerName)
}

func TestListByWorker_SurfacesStoreErrors(t *testing.T) {
	f := newFixture()
	f.reviews.On("ListByWorker", mock.Anything, "w-1").Return(nil, errors.New("index missing"))

	_, err := f.svc.ListByWorker(context.Background(), "w-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index missing")
}
