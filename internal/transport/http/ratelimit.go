package http

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LimiterConfig sizes the per-key token buckets.
type LimiterConfig struct {
	RPS     float64
	Burst   int
	IdleTTL time.Duration
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one in-memory token bucket per key.
type RateLimiter struct {
	conf    LimiterConfig
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*keyLimiter
}

// NewRateLimiter starts a sweeper that drops idle buckets until ctx is done.
func NewRateLimiter(ctx context.Context, conf LimiterConfig) *RateLimiter {
	if conf.IdleTTL <= 0 {
		conf.IdleTTL = 10 * time.Minute
	}
	rl := &RateLimiter{
		conf:    conf,
		now:     time.Now,
		buckets: make(map[string]*keyLimiter),
	}

	go func() {
		ticker := time.NewTicker(conf.IdleTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.sweep()
			}
		}
	}()

	return rl
}

func (rl *RateLimiter) sweep() {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, v := range rl.buckets {
		if now.Sub(v.lastSeen) > rl.conf.IdleTTL {
			delete(rl.buckets, k)
		}
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}

	lim := rate.NewLimiter(rate.Limit(rl.conf.RPS), rl.conf.Burst)
	rl.buckets[key] = &keyLimiter{limiter: lim, lastSeen: now}
	return lim
}

// KeySelector picks the bucket a request is charged to.
type KeySelector func(c *gin.Context) string

// ClientIPKey charges requests to the caller's IP.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// Middleware answers 429 with Retry-After when the key's bucket is empty.
func (rl *RateLimiter) Middleware(selectKey KeySelector) gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := rl.getLimiter(selectKey(c))
		reservation := lim.ReserveN(rl.now(), 1)
		if !reservation.OK() {
			c.Header("Retry-After", "1")
			writeError(c, http.StatusTooManyRequests, codeRateLimited, "too many requests, please try again later")
			return
		}
		if delay := reservation.DelayFrom(rl.now()); delay > 0 {
			reservation.CancelAt(rl.now())
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			writeError(c, http.StatusTooManyRequests, codeRateLimited, "too many requests, please try again later")
			return
		}
		c.Next()
	}
}
