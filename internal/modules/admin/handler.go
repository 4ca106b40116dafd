package admin

import (
	"errors"
	"net/http"

	"shugly/internal/domain"
	"shugly/internal/modules/booking"
	"shugly/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the console under /admin. The group must already be admin-only.
func (h *Handler) RegisterRoutes(admins *gin.RouterGroup) {
	g := admins.Group("/admin")
	{
		g.GET("/users", h.ListUsers)
		g.PATCH("/users/:id/role", h.ChangeRole)
		g.DELETE("/users/:id", h.DeleteUser)

		g.GET("/workers", h.ListWorkers)
		g.PATCH("/workers/:id/availability", h.SetWorkerAvailability)
		g.DELETE("/workers/:id", h.DeleteWorker)

		g.GET("/bookings", h.ListBookings)
		g.POST("/bookings/:id/approve", h.ApproveBooking)
		g.POST("/bookings/:id/reject", h.RejectBooking)

		g.GET("/stats", h.GetStats)
		g.POST("/maintenance/backfill-approval", h.BackfillApproval)
		g.POST("/maintenance/repair-workers", h.RepairWorkers)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), domain.UserRole(c.Query("role")))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	u, err := h.service.ChangeRole(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *Handler) ListWorkers(c *gin.Context) {
	workers, err := h.service.ListWorkers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workers": workers})
}

func (h *Handler) SetWorkerAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	if err := h.service.SetWorkerAvailability(c.Request.Context(), c.Param("id"), *req.Available); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"available": *req.Available})
}

func (h *Handler) DeleteWorker(c *gin.Context) {
	if err := h.service.DeleteWorker(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Worker deleted"})
}

func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context(), domain.BookingStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ApproveBooking(c *gin.Context) {
	b, err := h.service.ApproveBooking(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		booking.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) RejectBooking(c *gin.Context) {
	b, err := h.service.RejectBooking(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		booking.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetStats(c *gin.Context) {
	st, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": st})
}

func (h *Handler) BackfillApproval(c *gin.Context) {
	report, err := h.service.BackfillAdminApproved(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

func (h *Handler) RepairWorkers(c *gin.Context) {
	report, err := h.service.RepairWorkers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrWorkerNotFound):
		response.Error(c, http.StatusNotFound, "WORKER_NOT_FOUND", "Worker not found")
	case errors.Is(err, ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be customer, worker or admin")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown booking status")
	case errors.Is(err, ErrSelfChange):
		response.Error(c, http.StatusBadRequest, "SELF_CHANGE", "You cannot change or delete your own account")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Admin operation failed")
	}
}
