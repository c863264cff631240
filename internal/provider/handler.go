package provider

import (
	"mime/multipart"
	"net/http"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Handler serves the provider endpoints.
type Handler struct {
	service         Service
	logger          *zap.Logger
	maxUploadMemory int64
}

// NewHandler creates a new provider handler.
func NewHandler(service Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service:         service,
		logger:          logger,
		maxUploadMemory: cfg.UploadMaxMemory(),
	}
}

// RegisterRoutes sets up the routes for provider operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	providers := router.Group("/providers")
	{
		providers.GET("", h.listProviders)
		providers.GET("/region-category", h.regionCategory)
		providers.GET("/summary", h.summary)
		providers.GET("/:id", h.getProvider)
		providers.GET("/:id/reviews", h.listReviews)
	}

	authed := router.Group("/providers", authMW)
	{
		authed.POST("", h.register)
		authed.GET("/me", h.getMine)
		authed.PUT("/me/profile-picture", h.updateProfilePicture)
		authed.DELETE("/me/sample-work/:sampleId", h.removeSampleWork)
		authed.POST("/:id/reviews", h.addReview)
	}

	admin := router.Group("/admin/providers", authMW, adminRoleMW)
	{
		admin.GET("", h.adminList)
		admin.GET("/overview", h.adminOverview)
		admin.GET("/:id", h.adminGet)
		admin.PATCH("/:id/approval", h.setApproval)
	}
}

func (h *Handler) register(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if err := c.Request.ParseMultipartForm(h.maxUploadMemory); err != nil {
		h.logger.Warn("Register provider: failed to parse multipart form", zap.Error(err), zap.String("userID", userID.String()))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request format or files too large: "+err.Error()))
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	files := c.Request.MultipartForm.File
	var profilePicture *multipart.FileHeader
	if fhs := files["profilePicture"]; len(fhs) > 0 {
		profilePicture = fhs[0]
	}

	p, err := h.service.Register(c.Request.Context(), userID, req, profilePicture, files["sampleWork"])
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Provider profile created. It will be visible once approved.", ToProviderResponse(p))
}

func (h *Handler) listProviders(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	providers, p, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "providers", ToProviderResponses(providers), p)
}

func (h *Handler) regionCategory(c *gin.Context) {
	var q RegionCategoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	result, err := h.service.RegionCategory(c.Request.Context(), q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"providers":     ToProviderResponses(result.Providers),
		"subCategories": result.Expansion.Labels,
		"mainCategory":  result.Expansion.MainCategory,
		"total":         result.Pagination.TotalItems,
		"page":          result.Pagination.CurrentPage,
		"limit":         result.Pagination.PageSize,
		"totalPages":    result.Pagination.TotalPages,
	})
}

func (h *Handler) summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Query("region"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Provider summary retrieved successfully.", summary)
}

func (h *Handler) getProvider(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	p, err := h.service.GetApprovedByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Provider retrieved successfully.", ToProviderResponse(p))
}

func (h *Handler) getMine(c *gin.Context) {
	p, err := h.service.GetByUserID(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Provider retrieved successfully.", ToProviderResponse(p))
}

func (h *Handler) updateProfilePicture(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadMemory); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid multipart form: "+err.Error()))
		return
	}
	fileHeader, err := c.FormFile("profilePicture")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithMessage("A profile picture is required."))
		return
	}
	p, err := h.service.UpdateProfilePicture(c.Request.Context(), common.GetUserIDFromContext(c), fileHeader)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile picture updated successfully.", ToProviderResponse(p))
}

func (h *Handler) removeSampleWork(c *gin.Context) {
	sampleID, err := common.ParseUUIDParam(c, "sampleId")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	p, err := h.service.RemoveSampleWork(c.Request.Context(), common.GetUserIDFromContext(c), sampleID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Sample work removed successfully.", ToProviderResponse(p))
}

func (h *Handler) addReview(c *gin.Context) {
	providerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	review, p, err := h.service.AddReview(c.Request.Context(), providerID, common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Review added successfully.", gin.H{
		"review":        ToReviewResponse(review),
		"averageRating": p.AverageRating,
		"reviewCount":   p.ReviewCount,
	})
}

func (h *Handler) listReviews(c *gin.Context) {
	providerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	reviews, err := h.service.ListReviews(c.Request.Context(), providerID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, ToReviewResponse(&reviews[i]))
	}
	common.RespondOK(c, "Reviews retrieved successfully.", out)
}

func (h *Handler) adminList(c *gin.Context) {
	var q AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	providers, p, err := h.service.AdminList(c.Request.Context(), q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "providers", ToProviderResponses(providers), p)
}

func (h *Handler) adminGet(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Provider retrieved successfully.", ToProviderResponse(p))
}

// regionOverviewEntry is the JSON shape of one region of the admin overview.
type regionOverviewEntry struct {
	Region     string            `json:"region"`
	Count      int               `json:"count"`
	Categories []CategorySummary `json:"categories"`
}

func (h *Handler) adminOverview(c *gin.Context) {
	regions, err := h.service.RegionOverview(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]regionOverviewEntry, 0, len(regions))
	for _, r := range regions {
		entry := regionOverviewEntry{Region: r.Region, Count: r.Count, Categories: make([]CategorySummary, 0, len(r.Categories))}
		for _, b := range r.Categories {
			entry.Categories = append(entry.Categories, CategorySummary{Category: b.Category, Count: b.Count, Providers: ToProviderResponses(b.Samples)})
		}
		out = append(out, entry)
	}
	common.RespondOK(c, "Provider overview retrieved successfully.", out)
}

func (h *Handler) setApproval(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	p, err := h.service.SetApproval(c.Request.Context(), id, *req.Approved)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Provider approval updated successfully.", ToProviderResponse(p))
}
