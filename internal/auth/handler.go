package auth

import (
	"net/http"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	users  user.Service
	tokens TokenService
	logger *zap.Logger
}

func NewHandler(users user.Service, tokens TokenService, logger *zap.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, logger: logger.Named("auth.handler")}
}

// RegisterRoutes mounts /auth. Only logout needs a valid token.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := router.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", authMW, h.logout)
}

func (h *Handler) register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	usr, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, "User registered successfully.", usr)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	usr, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RequestLogger(c).Info("login refused", zap.String("email", req.Email))
		common.RespondWithError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, "Login successful.", usr)
}

func (h *Handler) logout(c *gin.Context) {
	v, _ := c.Get(common.TokenClaimsKey)
	claims, ok := v.(*Claims)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	if err := h.tokens.RevokeToken(c.Request.Context(), claims); err != nil {
		h.logger.Error("revoke token", zap.Error(err), zap.Stringer("userID", claims.UserID))
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Logged out successfully.", nil)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, message string, usr *user.User) {
	token, expiresAt, err := h.tokens.GenerateAccessToken(usr)
	if err != nil {
		h.logger.Error("sign access token", zap.Error(err), zap.Stringer("userID", usr.ID))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate access token."))
		return
	}
	common.RespondSuccess(c, status, message, gin.H{
		"user": user.ToUserResponse(usr),
		"token": TokenResponse{
			AccessToken: token,
			TokenType:   common.AuthorizationTypeBearer,
			ExpiresAt:   expiresAt,
		},
	})
}
