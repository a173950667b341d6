package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock - управляемое время для rate limiter
type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(rate int, window time.Duration, trustProxy bool) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(rate, window, trustProxy, setupTestLogger())
	rl.now = clock.Now
	return rl, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, clock := newTestLimiter(3, time.Minute, false)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("10.0.0.1")
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	clock.Advance(20 * time.Second)
	allowed, retryAfter := rl.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, 40*time.Second, retryAfter)

	// другие адреса считаются отдельно
	allowed, _ = rl.Allow("10.0.0.2")
	assert.True(t, allowed)

	// новое окно восстанавливает лимит
	clock.Advance(40 * time.Second)
	allowed, _ = rl.Allow("10.0.0.1")
	assert.True(t, allowed)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute, false)

	rl.Allow("old")
	clock.Advance(90 * time.Second)
	rl.Allow("fresh")
	clock.Advance(45 * time.Second)

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.buckets, "old")
	assert.Contains(t, rl.buckets, "fresh")
}

func TestRateLimiter_RunStopsWithContext(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Millisecond, false)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- rl.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl, _ := newTestLimiter(2, time.Minute, false)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// порт клиента не влияет на ключ
	assert.Equal(t, http.StatusOK, send("192.168.1.1:5000").Code)
	assert.Equal(t, http.StatusOK, send("192.168.1.1:5001").Code)

	w := send("192.168.1.1:5002")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Equal(t, 60, retry)
	assert.Contains(t, decodeError(t, w.Body).Message, "rate limit exceeded")

	assert.Equal(t, http.StatusOK, send("192.168.1.2:5000").Code)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr without port", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "ipv6 remote addr", remoteAddr: "[::1]:8080", want: "::1"},
		{name: "unparsable remote addr", remoteAddr: "pipe", want: "pipe"},
		{
			name:       "forwarded headers ignored by default",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1"},
			want:       "10.0.0.1",
		},
		{
			name:       "first forwarded address behind proxy",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.5"},
			trustProxy: true,
			want:       "203.0.113.1",
		},
		{
			name:       "real ip behind proxy",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			trustProxy: true,
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req, tt.trustProxy))
		})
	}
}
