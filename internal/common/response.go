package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggerKey is where the request-scoped logger lives in the gin context.
const LoggerKey = "logger"

// SuccessResponse is the envelope of every 2xx body except paginated lists.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithError aborts the chain with err rendered as an APIError.
// Errors that are not APIErrors are logged and hidden behind a bare 500.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		RequestLogger(c).Error("unhandled error", zap.Error(err), zap.String("route", c.FullPath()))
		apiErr = ErrInternalServer
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

func RespondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}

func RespondOK(c *gin.Context, message string, data interface{}) {
	RespondSuccess(c, http.StatusOK, message, data)
}

func RespondCreated(c *gin.Context, message string, data interface{}) {
	RespondSuccess(c, http.StatusCreated, message, data)
}

// RespondPaginated writes items under key beside the page counters.
func RespondPaginated(c *gin.Context, key string, items interface{}, p *Pagination) {
	body := gin.H{
		"success":    true,
		"total":      p.TotalItems,
		"page":       p.CurrentPage,
		"limit":      p.PageSize,
		"totalPages": p.TotalPages,
	}
	body[key] = items
	c.JSON(http.StatusOK, body)
}
