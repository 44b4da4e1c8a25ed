package mw

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const minLimiterIdle = time.Minute

// IPRateLimiter hands out one token bucket per client IP. A bucket that sees
// no traffic for idle is evicted; the next request from that IP starts with a
// full bucket.
type IPRateLimiter struct {
	buckets *cache.Cache
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

// NewIPRateLimiter creates a limiter allowing r requests per second with
// bursts of b for every IP.
func NewIPRateLimiter(r rate.Limit, b int, idle time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		buckets: cache.New(idle, idle),
		r:       r,
		b:       b,
	}
}

// Limiter returns the bucket for ip and restarts its idle timer.
func (l *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.lookup(ip)
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
	}
	l.buckets.SetDefault(ip, limiter)
	return limiter
}

func (l *IPRateLimiter) lookup(ip string) (*rate.Limiter, bool) {
	v, ok := l.buckets.Get(ip)
	if !ok {
		return nil, false
	}
	return v.(*rate.Limiter), true
}

// refillTime is how long an unused bucket takes to fill up again. Evicting it
// after that loses nothing.
func refillTime(r rate.Limit, b int) time.Duration {
	if r <= 0 || r == rate.Inf {
		return minLimiterIdle
	}
	d := time.Duration(float64(b) / float64(r) * float64(time.Second))
	return max(d, minLimiterIdle)
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(r, b, refillTime(r, b))
	return func(c *gin.Context) {
		if !limiter.Limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later."})
			return
		}
		c.Next()
	}
}
