package updaterequest

import (
	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Handler serves the provider update request endpoints.
type Handler struct {
	service         Service
	logger          *zap.Logger
	maxUploadMemory int64
}

// NewHandler creates a new update request handler.
func NewHandler(service Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service:         service,
		logger:          logger,
		maxUploadMemory: cfg.UploadMaxMemory(),
	}
}

// RejectRequest is the body of the reject endpoint.
type RejectRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// AdminListQuery filters the admin review queue.
type AdminListQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// RegisterRoutes sets up the routes for update request operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	mine := router.Group("/providers", authMW)
	{
		mine.POST("/update-request", h.submit)
		mine.GET("/update-requests/mine", h.listMine)
	}

	admin := router.Group("/admin/providers/update-requests", authMW, adminRoleMW)
	{
		admin.GET("", h.adminList)
		admin.GET("/:id", h.adminGet)
		admin.POST("/:id/approve", h.approve)
		admin.POST("/:id/reject", h.reject)
	}
}

func (h *Handler) submit(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if err := c.Request.ParseMultipartForm(h.maxUploadMemory); err != nil {
		h.logger.Warn("Submit update request: failed to parse multipart form", zap.Error(err), zap.String("userID", userID.String()))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request format or files too large: "+err.Error()))
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	r, err := h.service.Submit(c.Request.Context(), userID, req, c.Request.MultipartForm.File["sampleWork"])
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Update request submitted. An administrator will review it.", ToRequestResponse(r))
}

func (h *Handler) listMine(c *gin.Context) {
	page, limit := common.GetPaginationParams(c)
	requests, p, err := h.service.ListMine(c.Request.Context(), common.GetUserIDFromContext(c), page, limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "requests", ToRequestResponses(requests), p)
}

func (h *Handler) adminList(c *gin.Context) {
	var q AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	requests, p, err := h.service.AdminList(c.Request.Context(), q.Status, q.Page, q.Limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "requests", ToRequestResponses(requests), p)
}

func (h *Handler) adminGet(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Update request retrieved successfully.", ToRequestResponse(r))
}

func (h *Handler) approve(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	r, err := h.service.Approve(c.Request.Context(), id, common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Update request approved.", ToRequestResponse(r))
}

func (h *Handler) reject(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	r, err := h.service.Reject(c.Request.Context(), id, common.GetUserIDFromContext(c), req.Reason)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Update request rejected.", ToRequestResponse(r))
}
