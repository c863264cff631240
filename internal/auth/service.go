// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTokenRevoked is returned for tokens invalidated by logout.
var ErrTokenRevoked = errors.New("token has been revoked")

// TokenService issues, validates and revokes access tokens.
type TokenService interface {
	GenerateAccessToken(subject TokenSubject) (string, time.Time, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	RevokeToken(ctx context.Context, claims *Claims) error
}

type JWTService struct {
	cfg       *config.Config
	blocklist Blocklist
	logger    *zap.Logger
	now       func() time.Time
}

// NewJWTService creates a new HS256 token service.
func NewJWTService(cfg *config.Config, blocklist Blocklist, logger *zap.Logger) TokenService {
	return &JWTService{cfg: cfg, blocklist: blocklist, logger: logger.Named("auth"), now: time.Now}
}

func (s *JWTService) GenerateAccessToken(subject TokenSubject) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(s.cfg.JWTAccessTokenExpiry)

	claims := &Claims{
		UserID: subject.GetID(),
		Email:  subject.GetEmail(),
		Role:   subject.GetRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.JWTIssuer,
			Subject:   subject.GetID().String(),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ValidateToken validates a JWT token and returns its claims.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.JWTIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.Debug("Failed to validate token", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, errors.New("invalid token claims")
	}

	if claims.ID != "" {
		revoked, err := s.blocklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token blocklist: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// RevokeToken blocklists the token's jti until it would have expired anyway.
func (s *JWTService) RevokeToken(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return errors.New("token has no id")
	}
	expiresAt := s.now().Add(s.cfg.JWTAccessTokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.blocklist.Revoke(ctx, claims.ID, expiresAt)
}
