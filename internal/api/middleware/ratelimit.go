package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"resume-editor/internal/config"
	"resume-editor/internal/logging"
	"resume-editor/pkg/models"
)

// clientLimiter tracks one client's token bucket
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket to the API. Idle clients
// are dropped from the map periodically.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	logger   logging.Logger
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewRateLimiter creates a rate limiter from configuration
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		rps:      rate.Limit(float64(cfg.RateLimit.RequestsPerMinute) / 60.0),
		burst:    cfg.RateLimit.Burst,
		logger:   logging.GetGlobalLogger(),
		ticker:   time.NewTicker(5 * time.Minute),
		stopChan: make(chan struct{}),
	}

	go rl.cleanupRoutine()

	return rl
}

// Middleware returns the echo middleware enforcing the limit
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.allow(c.RealIP()) {
				requestID, _ := c.Get("request_id").(string)
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:     "rate_limited",
					Message:   "Too many requests, slow down",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			return next(c)
		}
	}
}

// Stop halts the cleanup routine
func (rl *RateLimiter) Stop() {
	close(rl.stopChan)
}

// allow checks one client's token bucket, creating it on first sight
func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rl.rps, rl.burst),
		}
		rl.clients[clientIP] = client
	}
	client.lastSeen = time.Now()

	allowed := client.limiter.Allow()
	if !allowed {
		rl.logger.Debug("Request rejected by rate limiter", map[string]interface{}{
			"client_ip": clientIP,
		})
	}
	return allowed
}

// cleanupRoutine periodically drops limiters for idle clients
func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			rl.ticker.Stop()
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}
