package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/briefboard/briefboard-server/internal/config"
	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/httputil"
)

// LoginRateLimiter throttles login attempts per client address using a fixed
// window. State is in-memory, which is sufficient for a single-process server;
// stale windows are swept opportunistically on the write path.
type LoginRateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*attemptWindow
	lastSweep time.Time
}

type attemptWindow struct {
	attempts int
	openedAt time.Time
}

func NewLoginRateLimiter() *LoginRateLimiter {
	return &LoginRateLimiter{
		windows:   make(map[string]*attemptWindow),
		lastSweep: time.Now(),
	}
}

// sweep drops expired windows. Called with l.mu held.
func (l *LoginRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < config.LoginLimiterSweepPeriod {
		return
	}
	l.lastSweep = now

	for addr, w := range l.windows {
		if now.Sub(w.openedAt) > config.LoginAttemptWindow {
			delete(l.windows, addr)
		}
	}
}

// allow reports whether addr may attempt a login now and, when it may not,
// how long until its window resets.
func (l *LoginRateLimiter) allow(addr string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	w, ok := l.windows[addr]
	if !ok || now.Sub(w.openedAt) > config.LoginAttemptWindow {
		l.windows[addr] = &attemptWindow{attempts: 1, openedAt: now}
		return true, 0
	}

	if w.attempts >= config.LoginMaxAttempts {
		return false, config.LoginAttemptWindow - now.Sub(w.openedAt)
	}

	w.attempts++
	return true, 0
}

func (l *LoginRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryIn := l.allow(clientAddr(r))
		if !ok {
			seconds := int(retryIn.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			httputil.WriteError(w, apperrors.RateLimitExceeded().
				WithDetails(map[string]any{"retryAfter": seconds}))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
