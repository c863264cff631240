package featured

import (
	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the homepage curation endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new featured provider handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the public list and the admin toggle.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	router.GET("/featured-providers", h.list)
	router.POST("/admin/featured-providers/:providerId/toggle", authMW, adminRoleMW, h.toggle)
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Featured providers retrieved successfully.", ToFeaturedResponses(entries))
}

func (h *Handler) toggle(c *gin.Context) {
	providerID, err := common.ParseUUIDParam(c, "providerId")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	resp, err := h.service.Toggle(c.Request.Context(), providerID, common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	msg := "Provider removed from featured list."
	if resp.Featured {
		msg = "Provider added to featured list."
	}
	common.RespondOK(c, msg, resp)
}
