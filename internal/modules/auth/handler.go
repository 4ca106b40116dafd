package auth

import (
	"errors"
	"net/http"

	"shugly/internal/domain"
	"shugly/internal/middleware"
	"shugly/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication and the caller's own profile.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

// RegisterSessionRoutes expects a group that already runs middleware.Authenticate.
func (h *Handler) RegisterSessionRoutes(authed *gin.RouterGroup) {
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)
	authed.GET("/dashboard", h.Dashboard)
}

// RegisterProfileRoutes expects a group restricted to customers and workers.
func (h *Handler) RegisterProfileRoutes(members *gin.RouterGroup) {
	profile := members.Group("/profile")
	{
		profile.PUT("", h.UpdateProfile)
		profile.PUT("/device-token", h.SetDeviceToken)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAdminRegistration):
			response.Error(c, http.StatusForbidden, "ADMIN_REGISTRATION_FORBIDDEN", "Admin accounts cannot be registered")
		case errors.Is(err, ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be customer or worker")
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Logout(c *gin.Context) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), s); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to revoke token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// Me returns the resolved session. profile is null when it could not be loaded.
func (h *Handler) Me(c *gin.Context) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user_id":    s.Principal.UserID,
		"role":       s.Role(),
		"profile":    s.Profile,
		"loaded":     s.Loaded,
		"expires_at": s.Principal.ExpiresAt,
	})
}

// Dashboard tells the client which landing route belongs to the caller's role.
func (h *Handler) Dashboard(c *gin.Context) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	role := s.Role()
	response.Success(c, http.StatusOK, gin.H{
		"role":     role,
		"redirect": role.LandingRoute(),
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update profile")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) SetDeviceToken(c *gin.Context) {
	var req DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	if err := h.service.SetDeviceToken(c.Request.Context(), c.GetString("user_id"), req.Token); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to save device token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"registered": req.Token != ""})
}
