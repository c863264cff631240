package middleware

import (
	"sync"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client keeps its token bucket.
const visitorTTL = 5 * time.Minute

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	name     string
	mu       sync.Mutex
	visitors *cache.Cache
	rps      rate.Limit
	burst    int
	log      *zap.Logger
}

// NewIPRateLimiter allows rps requests per second per IP with the given burst.
// A non-positive rps disables limiting.
func NewIPRateLimiter(name string, rps float64, burst int, logger *zap.Logger) *IPRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		name:     name,
		visitors: cache.New(visitorTTL, time.Minute),
		rps:      rate.Limit(rps),
		burst:    burst,
		log:      logger,
	}
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.visitors.Get(ip); ok {
		lim := v.(*rate.Limiter)
		l.visitors.SetDefault(ip, lim)
		return lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.visitors.SetDefault(ip, lim)
	return lim
}

// Handler rejects requests over the limit with 429.
func (l *IPRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rps <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.limiter(ip).Allow() {
			metrics.RateLimited.WithLabelValues(l.name).Inc()
			l.log.Warn("Rate limit exceeded", zap.String("limiter", l.name), zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
