// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"

	"github.com/kpata360-rgb/workisready-backend1/internal/auth"
	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenValidator is the part of auth.TokenService the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokens TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(common.AuthorizationHeader) == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		claims, err := tokens.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Info("Token validation failed", zap.Error(err))
			details := "Invalid or expired token."
			if errors.Is(err, auth.ErrTokenRevoked) {
				details = "Token has been revoked."
			}
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails(details))
			return
		}

		c.Set(common.UserIDKey, claims.UserID)
		c.Set(common.UserEmailKey, claims.Email)
		c.Set(common.UserRoleKey, claims.Role)
		c.Set(common.TokenClaimsKey, claims)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
