package booking

import (
	"errors"
	"net/http"

	"shugly/internal/domain"
	"shugly/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterMemberRoutes expects a group restricted to customers and workers.
func (h *Handler) RegisterMemberRoutes(members *gin.RouterGroup) {
	members.GET("/bookings/my", h.ListMine)
	members.GET("/bookings/:id", h.GetBooking)
}

func (h *Handler) RegisterCustomerRoutes(customers *gin.RouterGroup) {
	customers.POST("/bookings", h.CreateBooking)
	customers.GET("/bookings/stats", h.CustomerStats)
	customers.POST("/bookings/:id/cancel", h.act(ActionCancel))
}

func (h *Handler) RegisterWorkerRoutes(workers *gin.RouterGroup) {
	workers.GET("/worker/bookings/pending", h.ListPending)
	workers.POST("/bookings/:id/accept", h.act(ActionAccept))
	workers.POST("/bookings/:id/reject", h.act(ActionReject))
	workers.POST("/bookings/:id/complete", h.act(ActionComplete))
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID: c.GetString("user_id"),
		Role:   domain.UserRole(c.GetString("role")),
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetBooking(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": view})
}

func (h *Handler) ListPending(c *gin.Context) {
	list, err := h.service.ListPending(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) CustomerStats(c *gin.Context) {
	stats, err := h.service.CustomerStats(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) act(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := h.service.Act(c.Request.Context(), actorFrom(c), c.Param("id"), action)
		if err != nil {
			WriteError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"booking": b})
	}
}

// WriteError maps booking errors to the response envelope. The admin console reuses it.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot access this booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking cannot be changed from its current status")
	case errors.Is(err, ErrBookingConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Booking was updated by someone else, reload and try again")
	case errors.Is(err, ErrWorkerNotFound):
		response.Error(c, http.StatusNotFound, "WORKER_NOT_FOUND", "Worker not found")
	case errors.Is(err, ErrWorkerUnavailable):
		response.Error(c, http.StatusConflict, "WORKER_UNAVAILABLE", "Worker is not accepting bookings")
	case errors.Is(err, ErrServiceNotOffered):
		response.Error(c, http.StatusBadRequest, "SERVICE_NOT_OFFERED", "Worker does not offer this service")
	case errors.Is(err, ErrDateInPast):
		response.Error(c, http.StatusBadRequest, "DATE_IN_PAST", "Booking date cannot be in the past")
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidSlot):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}
