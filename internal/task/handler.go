package task

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the task endpoints.
type Handler struct {
	service         Service
	logger          *zap.Logger
	maxUploadMemory int64
}

// NewHandler creates a new task handler.
func NewHandler(service Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service:         service,
		logger:          logger,
		maxUploadMemory: cfg.UploadMaxMemory(),
	}
}

// RegisterRoutes sets up the routes for task operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.listTasks)
		tasks.GET("/summary", h.regionSummary)
		tasks.GET("/mine", authMW, h.listMine)
		tasks.GET("/:id", h.getTask)
		tasks.POST("", authMW, h.createTask)
		tasks.PUT("/:id/status", authMW, h.updateStatus)
		tasks.DELETE("/:id", authMW, h.deleteTask)
	}
}

func (h *Handler) createTask(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	req, images, err := h.bindCreate(c)
	if err != nil {
		h.logger.Warn("Create task: unreadable body", zap.Error(err), zap.String("userID", userID.String()))
		common.RespondWithError(c, err)
		return
	}

	t, err := h.service.CreateTask(c.Request.Context(), userID, req, images)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Task created successfully.", ToTaskResponse(t))
}

// bindCreate reads a task from a multipart form, or from any other body gin
// can bind. Bodies without files still reach the missing-field check.
func (h *Handler) bindCreate(c *gin.Context) (CreateTaskRequest, []*multipart.FileHeader, error) {
	var req CreateTaskRequest
	err := c.Request.ParseMultipartForm(h.maxUploadMemory)
	switch {
	case err == nil:
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			return req, nil, common.BindingError(err)
		}
		return req, c.Request.MultipartForm.File["images"], nil
	case errors.Is(err, http.ErrNotMultipart):
		if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, nil, common.BindingError(err)
		}
		return req, nil, nil
	default:
		return req, nil, common.ErrBadRequest.WithDetails("Invalid request format or files too large: " + err.Error())
	}
}

func (h *Handler) listTasks(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	tasks, p, err := h.service.ListTasks(c.Request.Context(), q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "tasks", ToTaskResponses(tasks), p)
}

func (h *Handler) listMine(c *gin.Context) {
	page, limit := common.GetPaginationParams(c)
	tasks, p, err := h.service.ListClientTasks(c.Request.Context(), common.GetUserIDFromContext(c), page, limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "tasks", ToTaskResponses(tasks), p)
}

func (h *Handler) getTask(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	t, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Task retrieved successfully.", ToTaskResponse(t))
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	t, err := h.service.UpdateStatus(c.Request.Context(), id, common.GetUserIDFromContext(c), req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Task status updated successfully.", ToTaskResponse(t))
}

func (h *Handler) deleteTask(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.DeleteTask(c.Request.Context(), id, common.GetUserIDFromContext(c), common.GetUserRoleFromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Task deleted successfully.", nil)
}

func (h *Handler) regionSummary(c *gin.Context) {
	summary, err := h.service.RegionSummary(c.Request.Context(), c.Query("region"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Task summary retrieved successfully.", summary)
}
