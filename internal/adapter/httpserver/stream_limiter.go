package httpserver

import (
	"sync"
	"time"

	apperrors "github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/errors"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	streamLimiterCleanupEvery = 5 * time.Minute
	streamLimiterIdleAfter    = 10 * time.Minute
)

// streamLimiter caps concurrent event streams per client IP and the rate at
// which one IP may open new ones. The total is capped by the hub.
type streamLimiter struct {
	mu        sync.Mutex
	open      map[string]int
	maxPerIP  int
	rates     map[string]*rateEntry
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
}

type rateEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newStreamLimiter treats a zero maxPerIP or connectsPerSecond as unlimited.
func newStreamLimiter(maxPerIP int, connectsPerSecond float64, burst int) *streamLimiter {
	limit := rate.Inf
	if connectsPerSecond > 0 {
		limit = rate.Limit(connectsPerSecond)
	}
	return &streamLimiter{
		open:      make(map[string]int),
		maxPerIP:  maxPerIP,
		rates:     make(map[string]*rateEntry),
		rate:      limit,
		burst:     burst,
		cleanupAt: time.Now().Add(streamLimiterCleanupEvery),
	}
}

// acquire reserves a stream slot for ip. The returned message explains a
// refusal.
func (l *streamLimiter) acquire(ip string) (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.cleanupAt) {
		l.cleanup(now)
		l.cleanupAt = now.Add(streamLimiterCleanupEvery)
	}

	entry, ok := l.rates[ip]
	if !ok {
		entry = &rateEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.rates[ip] = entry
	}
	entry.lastSeen = now
	if !entry.limiter.Allow() {
		return false, "reconnecting too fast"
	}

	if l.maxPerIP > 0 && l.open[ip] >= l.maxPerIP {
		return false, "too many open streams"
	}
	l.open[ip]++
	return true, ""
}

func (l *streamLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if count := l.open[ip]; count > 1 {
		l.open[ip] = count - 1
	} else {
		delete(l.open, ip)
	}
}

func (l *streamLimiter) count(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open[ip]
}

// cleanup drops idle rate entries. Must be called with mu held.
func (l *streamLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-streamLimiterIdleAfter)
	for ip, entry := range l.rates {
		if entry.lastSeen.Before(cutoff) && l.open[ip] == 0 {
			delete(l.rates, ip)
		}
	}
}

func (l *streamLimiter) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		if ok, reason := l.acquire(ip); !ok {
			return apperrors.RateLimitedError(reason)
		}
		defer l.release(ip)
		return next(c)
	}
}
