package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kpata360-rgb/workisready-backend1/internal/auth"
	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubValidator struct {
	claims *auth.Claims
	err    error
}

func (s stubValidator) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	return s.claims, s.err
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": common.GetUserIDFromContext(c).String(),
			"role":   common.GetUserRoleFromContext(c),
		})
	})
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	uid := uuid.New()
	valid := stubValidator{claims: &auth.Claims{UserID: uid, Email: "a@b.c", Role: common.RoleProvider}}

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(AuthMiddleware(valid, zap.NewNop())).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, false, decode(t, w)["success"])
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()
		newRouter(AuthMiddleware(valid, zap.NewNop())).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		newRouter(AuthMiddleware(stubValidator{err: auth.ErrTokenRevoked}, zap.NewNop())).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token has been revoked.", decode(t, w)["details"])
	})

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		newRouter(AuthMiddleware(valid, zap.NewNop())).ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, uid.String(), body["userID"])
		assert.Equal(t, common.RoleProvider, body["role"])
	})

	t.Run("other error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		newRouter(AuthMiddleware(stubValidator{err: errors.New("bad")}, zap.NewNop())).ServeHTTP(w, req)
		assert.Equal(t, "Invalid or expired token.", decode(t, w)["details"])
	})
}

func TestRoleAuthMiddleware(t *testing.T) {
	setRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(common.UserRoleKey, role)
			}
			c.Next()
		}
	}

	w := httptest.NewRecorder()
	newRouter(setRole(common.RoleAdmin), RoleAuthMiddleware(common.RoleAdmin)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	newRouter(setRole(common.RoleClient), RoleAuthMiddleware(common.RoleAdmin)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	newRouter(setRole(""), RoleAuthMiddleware(common.RoleAdmin)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestZapLoggerSetsRequestID(t *testing.T) {
	r := newRouter(ZapLogger(zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestZapLoggerAccessLine(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newRouter(ZapLogger(zap.New(core)))

	req := httptest.NewRequest(http.MethodGet, "/x?page=2", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	first := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-1", first["request_id"])
	assert.Equal(t, "/x", first["route"])
	assert.Equal(t, "page=2", first["query"])
	assert.Equal(t, int64(http.StatusOK), first["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.NoRoute(NoRoute)
	r.GET("/api", func(c *gin.Context) { _ = c.Error(common.ErrConflict.WithDetails("dup")) })
	r.GET("/plain", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "dup", decode(t, w)["details"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter("test", 0.001, 2, zap.NewNop())
	r := newRouter(l.Handler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "limits are per client IP")
}

func TestIPRateLimiterDisabled(t *testing.T) {
	r := newRouter(NewIPRateLimiter("off", 0, 0, zap.NewNop()).Handler())
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
