package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func serveLimited(t *testing.T, handler echo.HandlerFunc, remoteAddr string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/queues/wallet-operations/counts", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	// Rate limiter uses SendError which sends response and returns nil
	assert.NoError(t, handler(c))
	return rec.Code
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	limiter := NewIPRateLimiter(2, 4)
	handler := limiter.Middleware()(okHandler)

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, serveLimited(t, handler, "192.168.1.2:12345"))
	}

	assert.Equal(t, http.StatusTooManyRequests, serveLimited(t, handler, "192.168.1.2:12345"))
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	limiter := NewIPRateLimiter(5, 5)
	handler := limiter.Middleware()(okHandler)

	for _, ip := range []string{"192.168.1.1:1234", "192.168.1.2:1234", "192.168.1.3:1234"} {
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, serveLimited(t, handler, ip), "request %d for %s", i, ip)
		}
	}
	assert.Equal(t, 3, limiter.size())
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For header",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For chain uses client entry",
			headers:    map[string]string{"X-Forwarded-For": "10.0.0.7, 172.16.0.1"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "10.0.0.7",
		},
		{
			name:       "X-Real-IP header",
			headers:    map[string]string{"X-Real-IP": "192.168.1.2"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.2",
		},
		{
			name: "X-Forwarded-For takes precedence",
			headers: map[string]string{
				"X-Forwarded-For": "192.168.1.1",
				"X-Real-IP":       "192.168.1.2",
			},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "Falls back to RealIP",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.3:12345",
			expected:   "192.168.1.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remoteAddr

			c := echo.New().NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.expected, getIP(c))
		})
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	limiter := NewIPRateLimiter(5, 10)
	limiter.Allow("old_ip")
	limiter.Allow("new_ip")

	limiter.mu.Lock()
	limiter.visitors["old_ip"].lastSeen = time.Now().Add(-5 * time.Minute)
	limiter.mu.Unlock()

	assert.Equal(t, 1, limiter.Sweep(3*time.Minute))

	limiter.mu.Lock()
	_, oldExists := limiter.visitors["old_ip"]
	_, newExists := limiter.visitors["new_ip"]
	limiter.mu.Unlock()

	assert.False(t, oldExists, "Old visitor should not exist")
	assert.True(t, newExists, "New visitor should still exist")
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	limiter := NewIPRateLimiter(5, 10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		limiter.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRateLimiter_Concurrency(t *testing.T) {
	limiter := NewIPRateLimiter(5, 10)
	handler := limiter.Middleware()(okHandler)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount, rateLimitCount := 0, 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = "192.168.1.100:12345"
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			err := handler(c)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				return
			}
			switch rec.Code {
			case http.StatusOK:
				successCount++
			case http.StatusTooManyRequests:
				rateLimitCount++
			}
		}()
	}

	wg.Wait()

	assert.Greater(t, successCount, 0, "Some requests should succeed")
	assert.Greater(t, rateLimitCount, 0, "Some requests should be rate limited")
	assert.Equal(t, 20, successCount+rateLimitCount, "All requests should be accounted for")
}
