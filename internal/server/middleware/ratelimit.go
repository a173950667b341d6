package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/tradetrack/internal/server/handlers"
)

// RateLimiter ограничивает число запросов с одного адреса за окно времени.
// Счетчик адреса сбрасывается целиком, когда окно истекло.
type RateLimiter struct {
	buckets    map[string]*bucket
	logger     *slog.Logger
	now        func() time.Time
	rate       int
	window     time.Duration
	trustProxy bool
	mu         sync.Mutex
}

// bucket - счетчик запросов одного адреса
type bucket struct {
	windowStart time.Time
	tokens      int
}

// NewRateLimiter создает новый rate limiter
// rate - максимальное количество запросов за окно window.
// trustProxy - адрес клиента берется из X-Forwarded-For/X-Real-IP (только за доверенным прокси).
func NewRateLimiter(rate int, window time.Duration, trustProxy bool, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		buckets:    make(map[string]*bucket),
		rate:       rate,
		window:     window,
		trustProxy: trustProxy,
		logger:     logger,
		now:        time.Now,
	}
}

// Run периодически удаляет счетчики, не использовавшиеся дольше двух окон
func (rl *RateLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window*2 {
			delete(rl.buckets, key)
		}
	}
}

// Allow проверяет, разрешен ли запрос для данного ключа.
// Если нет, возвращает время до начала следующего окна.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowStart) >= rl.window {
		b = &bucket{windowStart: now, tokens: rl.rate}
		rl.buckets[key] = b
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}
	return false, rl.window - now.Sub(b.windowStart)
}

// Middleware отвечает 429 с Retry-After, когда лимит адреса исчерпан
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r, rl.trustProxy)

		allowed, retryAfter := rl.Allow(key)
		if !allowed {
			rl.logger.Warn("Rate limit exceeded",
				"ip", key,
				"method", r.Method,
				"path", r.URL.Path,
			)

			seconds := int(math.Ceil(retryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
			handlers.WriteError(w, rl.logger, http.StatusTooManyRequests, "",
				"rate limit exceeded, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP извлекает IP адрес клиента без порта
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
