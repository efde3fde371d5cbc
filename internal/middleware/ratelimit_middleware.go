package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/ministore_api/internal/utils"
)

// LoginRateLimiter counts failed logins per IP inside a fixed window.
type LoginRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	limit    int
	window   time.Duration
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewLoginRateLimiter allows limit failures per IP every window.
func NewLoginRateLimiter(limit int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts: make(map[string]*attemptInfo),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow reports whether ip may try again.
func (r *LoginRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune()
	info, ok := r.attempts[ip]
	return !ok || info.count < r.limit
}

// RecordFailure counts a failed attempt for ip.
func (r *LoginRateLimiter) RecordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, ok := r.attempts[ip]
	if !ok || now.Sub(info.firstAt) > r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return
	}
	info.count++
}

// Reset forgets ip after a successful login.
func (r *LoginRateLimiter) Reset(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, ip)
}

// prune drops expired windows. Caller holds mu.
func (r *LoginRateLimiter) prune() {
	now := r.now()
	for ip, info := range r.attempts {
		if now.Sub(info.firstAt) > r.window {
			delete(r.attempts, ip)
		}
	}
}

// Handle rejects requests from IPs that used up their failed attempts.
func (r *LoginRateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Demasiados intentos, intente más tarde")
			c.Abort()
			return
		}
		c.Next()
	}
}
