package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shugly/internal/cache"
	"shugly/internal/domain"
	"shugly/internal/pkg/jwt"
	"shugly/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles map[string]*domain.User

func (s stubProfiles) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func setup(t *testing.T) (*jwt.Service, *session.Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := jwt.New("test-secret-123", time.Hour)
	profiles := stubProfiles{
		"42":    {ID: "42", Name: "Customer", Role: domain.RoleCustomer},
		"admin": {ID: "admin", Name: "Admin", Role: domain.RoleAdmin},
		"7":     {ID: "7", Name: "Worker", Role: domain.RoleWorker},
	}
	return jwtService, session.NewProvider(jwtService, profiles, cache.NewMemoryDenylist(), time.Second)
}

func perform(router *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_ValidToken(t *testing.T) {
	jwtService, provider := setup(t)
	validToken, _ := jwtService.GenerateToken("42", "customer")

	router := gin.New()
	router.Use(Authenticate(provider))
	router.GET("/protected", func(c *gin.Context) {
		s, ok := session.FromContext(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{
			"user_id": s.Principal.UserID,
			"role":    c.GetString("role"),
			"name":    s.Profile.Name,
		})
	})

	w := perform(router, "Bearer "+validToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"42"`)
	assert.Contains(t, w.Body.String(), "customer")
	assert.Contains(t, w.Body.String(), "Customer")
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	_, provider := setup(t)

	router := gin.New()
	router.Use(Authenticate(provider))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := perform(router, "Bearer invalid-jwt-here")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthenticate_NoToken(t *testing.T) {
	_, provider := setup(t)

	router := gin.New()
	router.Use(Authenticate(provider))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := perform(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestAuthenticate_WrongFormat(t *testing.T) {
	_, provider := setup(t)

	router := gin.New()
	router.Use(Authenticate(provider))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := perform(router, "Basic dGVzdA==")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	jwtService, provider := setup(t)
	token, _ := jwtService.GenerateToken("42", "customer")

	s, err := provider.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, provider.Revoke(context.Background(), s))

	router := gin.New()
	router.Use(Authenticate(provider))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := perform(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestRequireRole(t *testing.T) {
	jwtService, provider := setup(t)

	router := gin.New()
	router.Use(Authenticate(provider))
	router.GET("/protected", RequireRole(domain.RoleCustomer, domain.RoleWorker), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	customer, _ := jwtService.GenerateToken("42", "customer")
	worker, _ := jwtService.GenerateToken("7", "worker")
	admin, _ := jwtService.GenerateToken("admin", "admin")
	orphan, _ := jwtService.GenerateToken("missing", "customer")

	assert.Equal(t, http.StatusOK, perform(router, "Bearer "+customer).Code)
	assert.Equal(t, http.StatusOK, perform(router, "Bearer "+worker).Code)

	w := perform(router, "Bearer "+admin)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	w = perform(router, "Bearer "+orphan)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "PROFILE_UNAVAILABLE")
}

func TestRequireRole_UsesStoredRole(t *testing.T) {
	jwtService, provider := setup(t)

	router := gin.New()
	router.Use(Authenticate(provider))
	router.GET("/protected", AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Token claims admin but the stored profile is a customer.
	forged, _ := jwtService.GenerateToken("42", "admin")
	assert.Equal(t, http.StatusForbidden, perform(router, "Bearer "+forged).Code)
}

func TestRequireRole_WithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", AdminOnly(), func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := perform(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/protected", func(c *gin.Context) {
		panic("boom")
	})

	w := perform(router, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/protected", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
