package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"shugly/internal/cache"
	"shugly/internal/database"
	"shugly/internal/domain"
	"shugly/internal/middleware"
	"shugly/internal/pkg/jwt"
	"shugly/internal/pkg/validator"
	"shugly/internal/repository"
	"shugly/internal/session"
	"shugly/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

type testEnv struct {
	router   *gin.Engine
	tokens   *jwt.Service
	users    *repository.UserRepository
	workers  *repository.WorkerRepository
	bookings *repository.BookingRepository
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.RegisterGinValidations())

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	env := &testEnv{
		tokens:   jwt.New("test-secret", time.Hour),
		users:    repository.NewUserRepository(db),
		workers:  repository.NewWorkerRepository(db),
		bookings: repository.NewBookingRepository(db),
	}
	images := storage.NewImageStore(storage.NewDiskBackend(t.TempDir(), "/static/uploads"))
	handler := NewHandler(NewService(env.workers, env.users, env.bookings, images))
	provider := session.NewProvider(env.tokens, env.users, cache.NewMemoryDenylist(), time.Second)

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterPublicRoutes(v1)

	workerGroup := v1.Group("")
	workerGroup.Use(middleware.Authenticate(provider), middleware.RequireRole(domain.RoleWorker))
	handler.RegisterWorkerRoutes(workerGroup)

	env.router = router
	return env
}

func (e *testEnv) worker(t *testing.T, name string) (string, string) {
	t.Helper()
	u := &domain.User{Name: name, Email: name + "@example.com", Phone: "0770", Role: domain.RoleWorker}
	require.NoError(t, e.users.CreateAccount(context.Background(), u, domain.NewWorker("")))
	token, err := e.tokens.GenerateToken(u.ID, string(domain.RoleWorker))
	require.NoError(t, err)
	return u.ID, token
}

func (e *testEnv) serve(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return resp, env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.serve(t, req, token)
}

func TestListAvailableWorkers(t *testing.T) {
	env := setupRouter(t)
	ctx := context.Background()
	lowID, _ := env.worker(t, "low")
	highID, _ := env.worker(t, "high")
	offID, _ := env.worker(t, "off")

	require.NoError(t, env.workers.ApplyReview(ctx, lowID, 3))
	require.NoError(t, env.workers.ApplyReview(ctx, highID, 5))
	require.NoError(t, env.workers.SetAvailability(ctx, offID, false))

	resp, body := env.do(t, http.MethodGet, "/api/v1/workers", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var data struct {
		Workers []domain.Worker `json:"workers"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.Len(t, data.Workers, 2)
	assert.Equal(t, highID, data.Workers[0].ID)
	assert.Equal(t, "high", data.Workers[0].Name)
	assert.Equal(t, lowID, data.Workers[1].ID)
}

func TestGetWorker(t *testing.T) {
	env := setupRouter(t)
	id, _ := env.worker(t, "ali")

	resp, body := env.do(t, http.MethodGet, "/api/v1/workers/"+id, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, string(body.Data), `"name":"ali"`)

	resp, body = env.do(t, http.MethodGet, "/api/v1/workers/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "WORKER_NOT_FOUND", body.Error.Code)
}

func TestUpdateProfileAndAvailability(t *testing.T) {
	env := setupRouter(t)
	id, token := env.worker(t, "ali")

	resp, _ := env.do(t, http.MethodPut, "/api/v1/worker/profile", UpdateProfileRequest{
		Services: []string{"طبخ", "طبخ", "كوي الملابس"}, HourlyRate: 75, Bio: "Ten years", Location: "بغداد",
	}, token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp, _ = env.do(t, http.MethodPatch, "/api/v1/worker/availability", gin.H{"available": false}, token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	w, err := env.workers.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, w.Availability)
	assert.Equal(t, []string{"طبخ", "كوي الملابس"}, w.Services)
	assert.Equal(t, 75.0, w.HourlyRate)

	resp, body := env.do(t, http.MethodPut, "/api/v1/worker/profile", UpdateProfileRequest{
		Services: []string{"صيانة السيارات"}, HourlyRate: 75,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "UNKNOWN_SERVICE", body.Error.Code)

	resp, body = env.do(t, http.MethodPut, "/api/v1/worker/profile", UpdateProfileRequest{HourlyRate: 0}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)

	resp, _ = env.do(t, http.MethodPatch, "/api/v1/worker/availability", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestOwnProfileDefaultsWhenRecordMissing(t *testing.T) {
	env := setupRouter(t)
	u := &domain.User{Name: "orphan", Email: "orphan@example.com", Role: domain.RoleWorker}
	require.NoError(t, env.users.Create(context.Background(), u))
	token, err := env.tokens.GenerateToken(u.ID, "worker")
	require.NoError(t, err)

	resp, body := env.do(t, http.MethodGet, "/api/v1/worker/profile", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)

	var data struct {
		Worker domain.Worker `json:"worker"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, domain.DefaultHourlyRate, data.Worker.HourlyRate)
	assert.Equal(t, "orphan", data.Worker.Name)
}

func TestUploadImage(t *testing.T) {
	env := setupRouter(t)
	id, token := env.worker(t, "ali")

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	upload := func(content []byte) (*httptest.ResponseRecorder, envelope) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		part, err := mw.CreateFormFile("image", "kitchen.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/worker/images", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return env.serve(t, req, token)
	}

	resp, _ := upload(png)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	w, err := env.workers.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, w.Images, 1)
	assert.Contains(t, w.Images[0], "/static/uploads/workers/"+id+"/")

	resp, body := upload([]byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "INVALID_FORMAT", body.Error.Code)
}

func TestWorkerStats(t *testing.T) {
	env := setupRouter(t)
	ctx := context.Background()
	id, token := env.worker(t, "ali")

	for _, b := range []domain.Booking{
		{CustomerID: "c-1", WorkerID: id, Status: domain.BookingCompleted, TotalPrice: 150},
		{CustomerID: "c-2", WorkerID: id, Status: domain.BookingCompleted, TotalPrice: 100},
		{CustomerID: "c-2", WorkerID: id, Status: domain.BookingPending, TotalPrice: 50},
	} {
		require.NoError(t, env.bookings.Create(ctx, &b))
	}
	require.NoError(t, env.workers.ApplyReview(ctx, id, 4))

	resp, body := env.do(t, http.MethodGet, "/api/v1/worker/stats", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.PendingBookings)
	assert.Equal(t, int64(2), stats.CompletedBookings)
	assert.Equal(t, 250.0, stats.Earnings)
	assert.Equal(t, 4.0, stats.Rating)
	assert.Equal(t, 1, stats.ReviewsCount)
}

func TestListAvailableWorkers_Filters(t *testing.T) {
	env := setupRouter(t)
	ctx := context.Background()
	cookID, _ := env.worker(t, "fatima")
	nannyID, _ := env.worker(t, "maryam")
	generalID, _ := env.worker(t, "noor")

	_, err := env.workers.UpsertProfile(ctx, cookID, domain.WorkerProfileUpdate{Services: []string{"طبخ"}, HourlyRate: 60})
	require.NoError(t, err)
	_, err = env.workers.UpsertProfile(ctx, nannyID, domain.WorkerProfileUpdate{Services: []string{"رعاية الأطفال"}, HourlyRate: 70})
	require.NoError(t, err)
	require.NoError(t, env.workers.ApplyReview(ctx, cookID, 5))
	require.NoError(t, env.workers.ApplyReview(ctx, nannyID, 3))

	list := func(params url.Values) []string {
		resp, body := env.do(t, http.MethodGet, "/api/v1/workers?"+params.Encode(), nil, "")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		var data struct {
			Workers []domain.Worker `json:"workers"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &data))
		ids := make([]string, len(data.Workers))
		for i, w := range data.Workers {
			ids[i] = w.ID
		}
		return ids
	}

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"no filter", url.Values{}, []string{cookID, nannyID, generalID}},
		{"name search is case insensitive", url.Values{"q": {"MARYAM"}}, []string{nannyID}},
		{"search matches services", url.Values{"q": {"طبخ"}}, []string{cookID}},
		{"exact service", url.Values{"service": {"رعاية الأطفال"}}, []string{nannyID}},
		{"only listed services match", url.Values{"service": {"تنظيف المنزل"}}, []string{}},
		{"minimum rating", url.Values{"min_rating": {"4"}}, []string{cookID}},
		{"service and rating", url.Values{"service": {"رعاية الأطفال"}, "min_rating": {"4"}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, list(tt.params))
		})
	}

	resp, body := env.do(t, http.MethodGet, "/api/v1/workers?min_rating=6", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
}

func TestListAvailableWorkers_SkipsDemotedOwner(t *testing.T) {
	env := setupRouter(t)
	ctx := context.Background()
	keptID, _ := env.worker(t, "kept")
	demotedID, _ := env.worker(t, "demoted")
	require.NoError(t, env.users.UpdateRole(ctx, demotedID, domain.RoleCustomer))

	resp, body := env.do(t, http.MethodGet, "/api/v1/workers", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var data struct {
		Workers []domain.Worker `json:"workers"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.Len(t, data.Workers, 1)
	assert.Equal(t, keptID, data.Workers[0].ID)
}

func TestUpdateProfile_Availability(t *testing.T) {
	env := setupRouter(t)
	id, token := env.worker(t, "ali")
	off := false

	resp, body := env.do(t, http.MethodPut, "/api/v1/worker/profile", UpdateProfileRequest{
		Services: []string{"طبخ"}, HourlyRate: 60, Availability: &off,
	}, token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, string(body.Data), `"availability":false`)

	w, err := env.workers.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, w.Availability)

	// Omitting the field leaves availability alone.
	resp, _ = env.do(t, http.MethodPut, "/api/v1/worker/profile", UpdateProfileRequest{HourlyRate: 65}, token)
	require.Equal(t, http.StatusOK, resp.Code)
	w, err = env.workers.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, w.Availability)
	assert.Equal(t, 65.0, w.HourlyRate)
}

func TestUploadImage_BodyOverLimit(t *testing.T) {
	env := setupRouter(t)
	_, token := env.worker(t, "ali")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("image", "big.png")
	require.NoError(t, err)
	_, err = part.Write(make([]byte, storage.MaxImageSize+2<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/worker/images", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, errBody := env.serve(t, req, token)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Equal(t, "FILE_TOO_LARGE", errBody.Error.Code)
}
