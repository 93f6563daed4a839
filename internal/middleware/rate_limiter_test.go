package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-1") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if rl.Allow("client-1") {
		t.Error("Request beyond the bucket size should be denied")
	}
}

func TestRateLimiterPerKeyBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)

	if !rl.Allow("client-1") {
		t.Fatal("First request for client-1 should be allowed")
	}
	if rl.Allow("client-1") {
		t.Error("Second request for client-1 should be denied")
	}
	if !rl.Allow("client-2") {
		t.Error("client-2 has its own bucket and should be allowed")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(1, 1, 10*time.Millisecond)

	if !rl.Allow("client-1") {
		t.Fatal("First request should be allowed")
	}
	if rl.Allow("client-1") {
		t.Fatal("Bucket should be empty")
	}

	time.Sleep(25 * time.Millisecond)
	if !rl.Allow("client-1") {
		t.Error("Bucket should have refilled after the refill period")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(2, 1, time.Minute)

	r := gin.New()
	r.Use(RateLimitMiddleware(rl))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	status := func() (int, http.Header, string) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		r.ServeHTTP(w, req)
		return w.Code, w.Header(), w.Body.String()
	}

	code, hdr, _ := status()
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if hdr.Get("X-RateLimit-Limit") != "2" {
		t.Errorf("Expected limit header '2', got %q", hdr.Get("X-RateLimit-Limit"))
	}

	status()
	code, _, body := status()
	if code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 once exhausted, got %d", code)
	}
	if !strings.Contains(body, ErrCodeRateLimited) {
		t.Errorf("Expected %s error code in body, got %s", ErrCodeRateLimited, body)
	}
}
