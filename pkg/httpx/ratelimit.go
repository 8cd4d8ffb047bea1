package httpx

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/clinic/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket profile: RequestsPerWindow refill over
// Window, with up to Burst requests admitted back to back.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

var (
	// LoginLimit guards /auth/login/ and /auth/register/.
	LoginLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// APILimit applies to authenticated record operations.
	APILimit = RateLimitConfig{RequestsPerWindow: 300, Window: time.Minute, Burst: 60}
)

// LoadRateLimitsFromEnv applies RATELIMIT_LOGIN_* and RATELIMIT_API_*
// overrides to LoginLimit and APILimit.
func LoadRateLimitsFromEnv() {
	LoginLimit = ParseRateLimitFromEnv("LOGIN", LoginLimit)
	APILimit = ParseRateLimitFromEnv("API", APILimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_<prefix>_REQUESTS,
// RATELIMIT_<prefix>_WINDOW_SEC and RATELIMIT_<prefix>_BURST on def.
// Missing or non-positive values keep the default.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	env := func(name string) (int, bool) {
		n, err := strconv.Atoi(os.Getenv("RATELIMIT_" + prefix + "_" + name))
		return n, err == nil && n > 0
	}

	if n, ok := env("REQUESTS"); ok {
		def.RequestsPerWindow = n
	}
	if n, ok := env("WINDOW_SEC"); ok {
		def.Window = time.Duration(n) * time.Second
	}
	if n, ok := env("BURST"); ok {
		def.Burst = n
	}
	return def
}

func (c RateLimitConfig) limit() rate.Limit {
	if c.Window <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// KeyFunc picks the bucket a request is counted against. An empty key
// exempts the request.
type KeyFunc func(*http.Request) string

// ClientIP returns the caller's address, preferring the first
// X-Forwarded-For hop and then X-Real-IP over the socket peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// userOrIP buckets authenticated callers by user and everyone else by IP.
func userOrIP(r *http.Request) string {
	if id := UserID(r.Context()); id > 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return "ip:" + ClientIP(r)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets holds one limiter per key. Keys idle for longer than idleAfter are
// swept on the next admission after the sweep interval.
type buckets struct {
	cfg       RateLimitConfig
	idleAfter time.Duration
	now       func() time.Time

	mu      sync.Mutex
	byKey   map[string]*bucket
	sweptAt time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{
		cfg:       cfg,
		idleAfter: max(cfg.Window, 5*time.Minute),
		now:       time.Now,
		byKey:     make(map[string]*bucket),
		sweptAt:   time.Now(),
	}
}

// admit takes one token for key, or reports how long until one is free.
func (b *buckets) admit(key string) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Sub(b.sweptAt) >= b.idleAfter {
		for k, v := range b.byKey {
			if now.Sub(v.lastSeen) >= b.idleAfter {
				delete(b.byKey, k)
			}
		}
		b.sweptAt = now
	}

	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(b.cfg.limit(), b.cfg.Burst)}
		b.byKey[key] = bk
	}
	bk.lastSeen = now

	res := bk.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, b.cfg.Window
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// RateLimit throttles requests per key with a DRF-style 429 body and a
// Retry-After header.
func RateLimit(cfg RateLimitConfig, key KeyFunc) Middleware {
	b := newBuckets(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := b.admit(k)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			secs := max(int(math.Ceil(wait.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))

			slogx.FromContext(r.Context()).Warn("request throttled", "key", k, "retry_after", secs)
			WriteDetail(w, http.StatusTooManyRequests,
				fmt.Sprintf("Request was throttled. Expected available in %d seconds.", secs))
		})
	}
}

// RateLimitByIP limits by client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, ClientIP)
}

// RateLimitByUser limits by authenticated user, falling back to address.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, userOrIP)
}
