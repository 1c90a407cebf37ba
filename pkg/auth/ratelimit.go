package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdle is how long an address keeps its limiter after its last attempt.
const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	idle      time.Duration

	rate  rate.Limit
	burst int
	now   func() time.Time
}

// NewLoginLimiter allows perMinute attempts per minute from each IP, with
// bursts of up to burst attempts. A perMinute of zero or less disables it.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	l := &LoginLimiter{
		limiters: map[string]*limiterEntry{},
		idle:     limiterIdle,
		rate:     rate.Inf,
		burst:    max(burst, 1),
		now:      time.Now,
	}
	if perMinute > 0 {
		l.rate = rate.Limit(float64(perMinute) / 60)
		// An entry may only be dropped once its bucket would have refilled.
		refill := time.Duration(float64(l.burst) / float64(l.rate) * float64(time.Second))
		l.idle = max(l.idle, refill)
	}
	return l
}

// Allow reports whether ip may make another attempt now.
func (l *LoginLimiter) Allow(ip string) bool {
	if l.rate == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep drops the limiters of addresses idle for longer than l.idle. It runs
// at most once per idle period. Callers hold l.mu.
func (l *LoginLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.idle {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

func (l *LoginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
