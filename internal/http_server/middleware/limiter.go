// Package middleware
package middleware

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/service"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

var ErrRateLimitExceeded = service.ApiStatus{StatusName: "RATE_LIMIT_EXCEEDED", Description: "请求次数过多, 请稍后再试", HttpCode: http.StatusTooManyRequests}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter 每个键一个令牌桶, 窗口内最多maxRequests次请求, 允许突发用完
type KeyedRateLimiter struct {
	limit    rate.Limit
	burst    int
	idle     time.Duration
	mu       sync.Mutex
	buckets  map[string]*bucket
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewKeyedRateLimiter(window time.Duration, maxRequests int) *KeyedRateLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	return &KeyedRateLimiter{
		limit:   rate.Every(window / time.Duration(maxRequests)),
		burst:   maxRequests,
		idle:    2 * window,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
}

func (l *KeyedRateLimiter) bucket(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.buckets[key]
	if !ok {
		entry = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Allow 被拒绝时返回需要等待的时间
func (l *KeyedRateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	reservation := l.bucket(key, now).ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *KeyedRateLimiter) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-l.stop:
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
}

func (l *KeyedRateLimiter) StopCleanup() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// cleanup 删除长时间没有请求的桶, 空闲超过两个窗口的桶必然已经装满
func (l *KeyedRateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	threshold := l.now().Add(-l.idle)
	for key, entry := range l.buckets {
		if entry.lastSeen.Before(threshold) {
			delete(l.buckets, key)
		}
	}
}

func (l *KeyedRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func RateLimitMiddleware(limiter *KeyedRateLimiter, keyFunc func(c echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ok, delay := limiter.Allow(keyFunc(c)); !ok {
				if delay > 0 {
					seconds := int(math.Ceil(delay.Seconds()))
					c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				}
				return service.NewErrorResponse(c, &ErrRateLimitExceeded)
			}
			return next(c)
		}
	}
}

// CombinedKeyFunc 组合IP和路由生成键
func CombinedKeyFunc(c echo.Context) string {
	return c.RealIP() + "|" + c.Path()
}
