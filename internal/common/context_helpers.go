package common

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// contextValue reads key from the gin context as a T, or T's zero value.
func contextValue[T any](c *gin.Context, key string) T {
	var zero T
	val, exists := c.Get(key)
	if !exists {
		return zero
	}
	v, ok := val.(T)
	if !ok {
		return zero
	}
	return v
}

// GetTokenFromContext returns the bearer credential of the Authorization
// header, or "" when the header is absent or uses another scheme.
func GetTokenFromContext(c *gin.Context) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(c.GetHeader(AuthorizationHeader)), " ")
	if !found || !strings.EqualFold(scheme, AuthorizationTypeBearer) {
		return ""
	}
	token = strings.TrimSpace(token)
	if strings.ContainsAny(token, " \t") {
		return ""
	}
	return token
}

// GetUserIDFromContext returns the authenticated user id, or uuid.Nil.
func GetUserIDFromContext(c *gin.Context) uuid.UUID {
	return contextValue[uuid.UUID](c, UserIDKey)
}

// GetUserRoleFromContext returns the authenticated role, or "".
func GetUserRoleFromContext(c *gin.Context) string {
	return contextValue[string](c, UserRoleKey)
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c *gin.Context) bool {
	return GetUserRoleFromContext(c) == RoleAdmin
}

// RequestLogger returns the request-scoped logger set by the logging
// middleware, falling back to a no-op logger outside a request.
func RequestLogger(c *gin.Context) *zap.Logger {
	if l := contextValue[*zap.Logger](c, LoggerKey); l != nil {
		return l
	}
	return zap.NewNop()
}

// ParseUUIDParam reads a path parameter as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, ErrBadRequest.WithDetails("Invalid " + name + " format.")
	}
	return id, nil
}
