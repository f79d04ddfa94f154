package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/loandesk/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines a token bucket: RequestsPerWindow refill over
// Window, with up to Burst available at once.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Profiles, overridable through RATELIMIT_{PROFILE}_{REQUESTS,WINDOW_SEC,BURST}.
var (
	// LoginLimit guards credential checks: 5 attempts per 20s.
	LoginLimit = RateLimitConfig{RequestsPerWindow: 5, Window: 20 * time.Second, Burst: 5}

	// SignupLimit guards account creation: 10 per hour.
	SignupLimit = RateLimitConfig{RequestsPerWindow: 10, Window: time.Hour, Burst: 10}

	// ModerateLimit for authenticated writes.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 60, Window: time.Minute, Burst: 20}

	// GeneralLimit for everything else: 300 per 5 minutes.
	GeneralLimit = RateLimitConfig{RequestsPerWindow: 300, Window: 5 * time.Minute, Burst: 300}
)

func init() {
	LoginLimit = ParseRateLimitFromEnv("LOGIN", LoginLimit)
	SignupLimit = ParseRateLimitFromEnv("SIGNUP", SignupLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	GeneralLimit = ParseRateLimitFromEnv("GENERAL", GeneralLimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_{prefix}_REQUESTS, _WINDOW_SEC and
// _BURST onto def. Unparseable or non-positive values are ignored.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

func positiveEnv(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyExtractor picks the bucket a request is charged to.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor uses the caller address resolved by ClientIP.
func IPKeyExtractor(r *http.Request) string {
	return ClientIP(r)
}

// UserIDKeyExtractor uses the authenticated subject, empty when anonymous.
func UserIDKeyExtractor(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// JSONFieldKeyExtractor reads a top level string field from a JSON body
// (e.g. the email on login) and restores the body for the handler. The value
// is lower-cased so "Bob@x" and "bob@x" share a bucket.
func JSONFieldKeyExtractor(field string) KeyExtractor {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil {
			return ""
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return ""
		}
		var v string
		if err := json.Unmarshal(fields[field], &v); err != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(v))
	}
}

// LimitedHandler is called instead of the wrapped handler when a request is
// rejected. key is the bucket that ran dry.
type LimitedHandler func(w http.ResponseWriter, r *http.Request, key string, retryAfter time.Duration)

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	config    RateLimitConfig
	extract   KeyExtractor
	onLimited LimitedHandler
	now       func() time.Time

	limiters    sync.Map // string -> *rate.Limiter
	mu          sync.Mutex
	lastCleanup time.Time
}

// RateLimitOption customises a RateLimiter.
type RateLimitOption func(*RateLimiter)

// WithLimitedHandler replaces the default 429 response.
func WithLimitedHandler(h LimitedHandler) RateLimitOption {
	return func(rl *RateLimiter) { rl.onLimited = h }
}

// NewRateLimiter builds a limiter for config keyed by extract.
func NewRateLimiter(config RateLimitConfig, extract KeyExtractor, opts ...RateLimitOption) *RateLimiter {
	rl := &RateLimiter{
		config:    config,
		extract:   extract,
		onLimited: defaultLimited,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	rl.lastCleanup = rl.now()
	return rl
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if l, ok := rl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	perSecond := float64(rl.config.RequestsPerWindow) / rl.config.Window.Seconds()
	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(perSecond), rl.config.Burst))
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops idle buckets (full of tokens) at most every 5 minutes so
// one-off keys do not accumulate.
func (rl *RateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.now().Sub(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = rl.now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.config.Burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// Allow charges one token to key and reports whether it was available, and
// if not how long until it will be.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	l := rl.limiter(key)
	if l.Allow() {
		return true, 0
	}
	res := l.Reserve()
	delay := res.Delay()
	res.Cancel()
	return false, delay
}

// Middleware enforces the limiter. Requests for which no key can be
// extracted pass through.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rl.extract(r)
			if key == "" {
				slogx.FromContext(r.Context()).Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, retry := rl.Allow(key)
			if !ok {
				secs := max(int(retry.Round(time.Second)/time.Second), 1)
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.config.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", rl.config.Window.String())

				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", secs,
				)
				rl.onLimited(w, r, key, retry)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func defaultLimited(w http.ResponseWriter, _ *http.Request, _ string, _ time.Duration) {
	WriteStatus(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}

// RateLimitMiddleware is shorthand for NewRateLimiter(...).Middleware().
func RateLimitMiddleware(config RateLimitConfig, extract KeyExtractor, opts ...RateLimitOption) Middleware {
	return NewRateLimiter(config, extract, opts...).Middleware()
}

// RateLimitByIP limits by client address.
func RateLimitByIP(config RateLimitConfig, opts ...RateLimitOption) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor, opts...)
}

// RateLimitByUser limits by authenticated user and address; anonymous
// callers fall back to address only.
func RateLimitByUser(config RateLimitConfig, opts ...RateLimitOption) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":", UserIDKeyExtractor, IPKeyExtractor), opts...)
}

// RateLimitByIPAndJSONField limits by address plus a JSON body field, e.g.
// login attempts per address and email.
func RateLimitByIPAndJSONField(config RateLimitConfig, field string, opts ...RateLimitOption) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":", IPKeyExtractor, JSONFieldKeyExtractor(field)), opts...)
}
