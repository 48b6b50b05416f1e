package adapter

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// LoginLimiter implements ports.AttemptLimiter with one token bucket per key.
// Idle buckets expire from the LRU, so memory stays bounded.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewLoginLimiter allows attemptsPerMinute attempts per key, refilled evenly over a minute.
func NewLoginLimiter(attemptsPerMinute int) *LoginLimiter {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = 5
	}
	return &LoginLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			10000,
			nil,
			time.Minute*10,
		),
		rate:  rate.Every(time.Minute / time.Duration(attemptsPerMinute)),
		burst: attemptsPerMinute,
	}
}

// Allow consumes one attempt for key.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters.Add(key, limiter)
	}
	l.mu.Unlock()

	return limiter.Allow()
}
