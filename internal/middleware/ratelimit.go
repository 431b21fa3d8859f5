package middleware

import (
	"context"
	"math"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/router"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"golang.org/x/time/rate"
)

const limiterCleanupInterval = 5 * time.Minute

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles photo endpoints per client address. Each photo
// request costs one oracle call, so kiosks are kept from flooding it.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

func NewRateLimiter(requestsPerMinute float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limit:    rate.Limit(requestsPerMinute / 60),
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if rl.limit <= 0 {
			return nil, nil
		}

		client := clientAddress(xcontext.HTTPRequest(ctx).RemoteAddr)
		if !rl.get(client).Allow() {
			retryAfter := int(math.Ceil(1 / float64(rl.limit)))
			if retryAfter < 1 {
				retryAfter = 1
			}

			xcontext.HTTPWriter(ctx).Header().Set("Retry-After", strconv.Itoa(retryAfter))
			xcontext.Logger(ctx).Warnf("Rate limit exceeded for %s", client)
			return nil, errorx.New(errorx.TooManyRequests, "Too many requests, retry later")
		}

		return nil, nil
	}
}

func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cl, ok := rl.limiters[client]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[client] = &clientLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now(), 2*limiterCleanupInterval)
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time, ttl time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for client, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, client)
		}
	}
}

func clientAddress(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.TrimSpace(remoteAddr)
	}

	return host
}
