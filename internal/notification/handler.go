package notification

import (
	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("notification.handler")}
}

// RegisterRoutes mounts /notifications behind authMW.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := router.Group("/notifications", authMW)
	g.GET("", h.list)
	g.GET("/unread-count", h.unreadCount)
	g.POST("/read-all", h.markAllRead)
	g.POST("/:id/read", h.markRead)
}

// caller returns the authenticated user or writes a 401.
func caller(c *gin.Context) (uuid.UUID, bool) {
	id := common.GetUserIDFromContext(c)
	if id == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters."))
		return
	}
	items, p, err := h.service.List(c.Request.Context(), userID, q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "notifications", items, p)
}

func (h *Handler) unreadCount(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	n, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", gin.H{"unread": n})
}

func (h *Handler) markRead(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Notification marked as read.", nil)
}

func (h *Handler) markAllRead(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	n, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "All notifications marked as read.", gin.H{"updated": n})
}
