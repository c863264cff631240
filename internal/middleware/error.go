package middleware

import (
	"net/http"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached with c.Error and the router's 404/405s
// in the standard envelope.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		if apiErr, ok := common.IsAPIError(last.Err); ok {
			c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
			return
		}
		log := logger
		if _, ok := c.Get(common.LoggerKey); ok {
			log = common.RequestLogger(c)
		}
		log.Error("unhandled handler error", zap.Error(last.Err), zap.String("route", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrInternalServer)
	}
}

// NoRoute renders unknown endpoints as a 404 envelope.
func NoRoute(c *gin.Context) {
	common.RespondWithError(c, common.ErrNotFound.WithDetails("The requested endpoint does not exist."))
}

// NoMethod renders a 405 envelope.
func NoMethod(c *gin.Context) {
	common.RespondWithError(c, common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL."))
}
