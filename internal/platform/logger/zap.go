package logger

import (
	"strings"

	"github.com/kpata360-rgb/workisready-backend1/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Release mode starts from zap's production
// preset, anything else from the development preset; LOG_FORMAT overrides
// the encoding of either.
func New(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.GinMode == "release" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.LogLevel))
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if f := strings.ToLower(strings.TrimSpace(cfg.LogFormat)); f == "json" || f == "console" {
		zc.Encoding = f
	}
	if zc.Encoding == "json" {
		zc.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}
	return zc.Build(zap.Fields(zap.String("service", "workisready-api")))
}

// ParseLevel accepts zap's level names plus "warning". Unknown input is info.
func ParseLevel(s string) zapcore.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
