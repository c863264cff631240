package category

import (
	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the read-only category endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("category.handler")}
}

type listQuery struct {
	IncludeSubCategories bool `form:"include_subcategories"`
}

// RegisterRoutes mounts /categories on router. No authentication is required.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/categories")
	g.GET("", h.list)
	g.GET("/:slug", h.bySlug)
	g.GET("/:slug/expansion", h.expansion)
}

func (h *Handler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("include_subcategories must be true or false."))
		return
	}
	cats, err := h.service.List(c.Request.Context(), q.IncludeSubCategories)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]CategoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, ToCategoryResponse(&cats[i]))
	}
	common.RespondOK(c, "Categories retrieved successfully.", out)
}

func (h *Handler) bySlug(c *gin.Context) {
	cat, err := h.service.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Category retrieved successfully.", ToCategoryResponse(cat))
}

func (h *Handler) expansion(c *gin.Context) {
	common.RespondOK(c, "Category expanded successfully.", h.service.Expand(c.Param("slug")))
}
