package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userauth/server/middleware"
)

func TestRateLimit_SlidingWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := gin.New()
	r.POST("/login", middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: 2,
		Now:               func() time.Time { return now },
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	var last *httptest.ResponseRecorder
	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", http.NoBody)
		req.RemoteAddr = remote
		last = httptest.NewRecorder()
		r.ServeHTTP(last, req)
		return last.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := do("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after budget, got %d", code)
	}
	if got := last.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
	now = now.Add(45 * time.Second)
	if code := do("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 inside the window, got %d", code)
	}
	if got := last.Header().Get("Retry-After"); got != "15" {
		t.Errorf("Retry-After = %q, want 15", got)
	}
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("other clients must not be limited, got %d", code)
	}

	now = now.Add(15*time.Second + time.Millisecond)
	if code := do("10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("expected window to slide, got %d", code)
	}
}

func TestRateLimit_CustomKey(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: 1,
		KeyFunc:           func(c *gin.Context) string { return c.GetHeader("X-Client") },
	}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, tc := range []struct {
		client string
		want   int
	}{
		{"a", http.StatusOK},
		{"a", http.StatusTooManyRequests},
		{"b", http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.Header.Set("X-Client", tc.client)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Fatalf("client %s: expected %d, got %d", tc.client, tc.want, rr.Code)
		}
	}
}
