package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"potosi-be/internal/auth"

	"golang.org/x/time/rate"
)

// Rate limit tiers
const (
	// checkout submit, payment session
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// provider deliveries arrive in bursts from a few addresses; the
	// handler rejects unsigned bodies before touching storage
	limitWebhook = rate.Limit(50)
	burstWebhook = 100

	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

const webhookPath = "/api/webhooks/payment"

const visitorTTL = 3 * time.Minute

var strictPaths = map[string]bool{
	"/api/checkout/":                true,
	"/api/checkout/create-session/": true,
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller and tier.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (l *RateLimiter) get(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r, b)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup drops idle visitors every minute until ctx is done.
func (l *RateLimiter) Cleanup(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.sweep()
		}
	}
}

func (l *RateLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, key)
		}
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := resolveRateTier(r)
		key := identityKey(r) + ":" + tier

		if !l.get(key, limit, burst).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityKey(r *http.Request) string {
	if uid := auth.UserIDFrom(r.Context()); uid != nil {
		return "user:" + *uid
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if r.Method == http.MethodPost {
		if r.URL.Path == webhookPath {
			return limitWebhook, burstWebhook, "webhook"
		}
		if strictPaths[r.URL.Path] {
			return limitStrict, burstStrict, "strict"
		}
	}
	return limitGeneral, burstGeneral, "general"
}
