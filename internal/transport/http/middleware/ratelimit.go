package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "taskboard/internal/transport/http/response"
)

func tooMany(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(http.StatusTooManyRequests, "", "too many requests"))
}

// RateLimit is a global token bucket.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return pass
	}
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		tooMany(c)
	}
}

// ipIdleTTL is how long a client's bucket survives without requests.
const ipIdleTTL = 10 * time.Minute

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// ipBuckets keeps one limiter per client. Idle buckets are swept at most once
// per ttl, during a request.
type ipBuckets struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	m         map[string]*ipBucket
}

func newIPBuckets(rps rate.Limit, burst int, ttl time.Duration, now func() time.Time) *ipBuckets {
	return &ipBuckets{rps: rps, burst: burst, ttl: ttl, now: now, lastSweep: now(), m: map[string]*ipBucket{}}
}

func (b *ipBuckets) allow(ip string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if now.Sub(b.lastSweep) >= b.ttl {
		for k, v := range b.m {
			if now.Sub(v.seen) >= b.ttl {
				delete(b.m, k)
			}
		}
		b.lastSweep = now
	}
	e, ok := b.m[ip]
	if !ok {
		e = &ipBucket{lim: rate.NewLimiter(b.rps, b.burst)}
		b.m[ip] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

func (b *ipBuckets) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.m)
}

// RateLimitPerIP keeps one token bucket per client IP.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return pass
	}
	buckets := newIPBuckets(rps, burst, ipIdleTTL, time.Now)
	return func(c *gin.Context) {
		if buckets.allow(c.ClientIP()) {
			c.Next()
			return
		}
		tooMany(c)
	}
}
