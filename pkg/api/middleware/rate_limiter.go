package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/models"
	"golang.org/x/time/rate"
)

// RateLimiter holds a token bucket per client IP
type RateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit // requests per second
	b        int        // burst
	stop     chan struct{}
}

// NewRateLimiter creates a new rate limiter and starts its janitor
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		r:        rate.Limit(float64(requestsPerMinute) / 60.0),
		b:        burst,
		stop:     make(chan struct{}),
	}

	go rl.cleanupVisitors(3 * time.Minute)

	return rl
}

// Stop ends the janitor goroutine
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// GetLimiter returns the rate limiter for the given IP
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.r, rl.b)
		rl.visitors[ip] = limiter
	}

	return limiter
}

// visitors whose bucket refilled completely have been idle
func (rl *RateLimiter) cleanupVisitors(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, limiter := range rl.visitors {
				if limiter.Tokens() >= float64(rl.b) {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RateLimitMiddleware creates an Echo middleware for rate limiting
func (rl *RateLimiter) RateLimitMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = c.Request().RemoteAddr
			}

			if !rl.GetLimiter(ip).Allow() {
				c.Response().Header().Set("Retry-After", "60")
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:   "rate_limit_exceeded",
					Message: "Too many requests. Please try again later.",
				})
			}

			return next(c)
		}
	}
}
