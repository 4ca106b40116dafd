package worker

import (
	"errors"
	"net/http"

	"shugly/internal/pkg/response"
	"shugly/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/workers", h.ListAvailable)
	v1.GET("/workers/:id", h.GetWorker)
}

// RegisterWorkerRoutes expects a group restricted to workers.
func (h *Handler) RegisterWorkerRoutes(workers *gin.RouterGroup) {
	me := workers.Group("/worker")
	{
		me.GET("/profile", h.GetOwnProfile)
		me.PUT("/profile", h.UpdateProfile)
		me.PATCH("/availability", h.SetAvailability)
		me.POST("/images", h.UploadImage)
		me.GET("/stats", h.Stats)
	}
}

// ListAvailable accepts optional q, service and min_rating query filters.
func (h *Handler) ListAvailable(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	list, err := h.service.ListAvailable(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load workers")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workers": list})
}

func (h *Handler) GetWorker(c *gin.Context) {
	w, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"worker": w})
}

func (h *Handler) GetOwnProfile(c *gin.Context) {
	w, err := h.service.OwnProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"worker": w})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	w, err := h.service.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"worker": w})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), c.GetString("user_id"), *req.Available); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"availability": *req.Available})
}

func (h *Handler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxImageSize+1<<20)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image must be 5 MB or smaller")
			return
		}
		response.Error(c, http.StatusBadRequest, "NO_FILE", "Image file is required")
		return
	}

	w, err := h.service.UploadImage(c.Request.Context(), c.GetString("user_id"), fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image must be 5 MB or smaller")
		case errors.Is(err, storage.ErrEmptyFile):
			response.Error(c, http.StatusBadRequest, "EMPTY_FILE", "Image file is empty")
		case errors.Is(err, storage.ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, "INVALID_FORMAT", "Only jpeg, png and webp images are allowed")
		default:
			writeError(c, err)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"worker": w})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrWorkerNotFound):
		response.Error(c, http.StatusNotFound, "WORKER_NOT_FOUND", "Worker not found")
	case errors.Is(err, ErrUnknownService):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_SERVICE", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process request")
	}
}
