package catalog

import (
	"net/http"

	"shugly/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	g := v1.Group("/catalog")
	{
		g.GET("/services", h.ListServices)
		g.GET("/meta", h.GetMeta)
	}
}

func (h *Handler) ListServices(c *gin.Context) {
	entries, err := h.service.Services(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": entries})
}

func (h *Handler) GetMeta(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Meta())
}
