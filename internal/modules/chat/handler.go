package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"shugly/internal/domain"
	"shugly/internal/pkg/response"
	"shugly/internal/session"

	"github.com/gin-gonic/gin"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

type Handler struct {
	service  *Service
	hub      *Hub
	sessions SessionResolver
}

func NewHandler(service *Service, hub *Hub, sessions SessionResolver) *Handler {
	return &Handler{service: service, hub: hub, sessions: sessions}
}

// RegisterMemberRoutes expects a group restricted to customers and workers.
func (h *Handler) RegisterMemberRoutes(members *gin.RouterGroup) {
	members.GET("/conversations", h.ListConversations)
	members.GET("/conversations/:id/messages", h.GetMessages)
	members.POST("/conversations/:id/read", h.MarkRead)
	members.POST("/messages", h.SendMessage)
	members.GET("/messages/unread-count", h.UnreadCount)
}

// RegisterSocketRoute mounts the websocket endpoint. Browsers cannot set headers on a
// websocket handshake, so it authenticates with ?token= itself.
func (h *Handler) RegisterSocketRoute(v1 *gin.RouterGroup) {
	v1.GET("/ws", h.ServeWS)
}

func (h *Handler) ListConversations(c *gin.Context) {
	list, err := h.service.Conversations(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversations": list})
}

func (h *Handler) GetMessages(c *gin.Context) {
	list, err := h.service.Messages(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": list})
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, http.StatusBadRequest, err)
		return
	}

	msg, err := h.service.Send(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

func (h *Handler) MarkRead(c *gin.Context) {
	n, err := h.service.MarkRead(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked_read": n})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.service.UnreadCount(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": n})
}

// ServeWS upgrades to a websocket for a customer or worker session.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Token is required, use ?token=")
		return
	}

	s, err := h.sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if s.Profile == nil {
		response.Error(c, http.StatusServiceUnavailable, "PROFILE_UNAVAILABLE", "User profile could not be loaded, try again")
		return
	}
	if role := s.Profile.Role; role != domain.RoleCustomer && role != domain.RoleWorker {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	h.hub.Serve(conn, s.Principal.UserID, func(userID string, data []byte) {
		h.service.HandleFrame(ctx, userID, data)
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrReceiverNotFound):
		response.Error(c, http.StatusNotFound, "RECEIVER_NOT_FOUND", "Receiver not found")
	case errors.Is(err, ErrSelfMessage):
		response.Error(c, http.StatusBadRequest, "SELF_MESSAGE", "You cannot message yourself")
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrMessageTooLong):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotParticipant):
		response.Error(c, http.StatusForbidden, "NOT_PARTICIPANT", "You are not a participant of this conversation")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process chat request")
	}
}
