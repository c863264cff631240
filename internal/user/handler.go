// File: internal/user/handler.go
package user

import (
	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service         Service
	logger          *zap.Logger
	maxUploadMemory int64
}

// NewHandler creates a new user handler.
func NewHandler(service Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service:         service,
		logger:          logger,
		maxUploadMemory: cfg.UploadMaxMemory(),
	}
}

// RegisterRoutes sets up the routes for user operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	userGroup.Use(authMW)
	{
		userGroup.GET("/me", h.getMe)
		userGroup.PUT("/me/avatar", h.updateAvatar)
	}

	adminGroup := router.Group("/admin/users")
	adminGroup.Use(authMW, adminRoleMW)
	{
		adminGroup.GET("", h.adminListUsers)
		adminGroup.GET("/:id", h.adminGetUser)
		adminGroup.PATCH("/:id", h.adminUpdateFlags)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.logger.Error("User ID not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", ToUserResponse(usr))
}

func (h *Handler) updateAvatar(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadMemory); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid multipart form: "+err.Error()))
		return
	}
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithMessage("An avatar image is required."))
		return
	}
	usr, err := h.service.UpdateAvatar(c.Request.Context(), common.GetUserIDFromContext(c), fileHeader)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Avatar updated successfully.", ToUserResponse(usr))
}

func (h *Handler) adminListUsers(c *gin.Context) {
	var q AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	users, pagination, err := h.service.AdminListUsers(c.Request.Context(), q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	common.RespondPaginated(c, "users", out, pagination)
}

func (h *Handler) adminGetUser(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User retrieved successfully.", ToUserResponse(usr))
}

func (h *Handler) adminUpdateFlags(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req AdminUpdateFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Admin update user: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	usr, err := h.service.AdminUpdateFlags(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User updated successfully.", ToUserResponse(usr))
}
