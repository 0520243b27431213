package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staffing/internal/domain/auth"
	"staffing/internal/transport/http/shared"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())
	testCtx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	userCtx := WithUser(testCtx, auth.UserContext{UserID: "user-1"})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/j1/billing", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/j1/billing", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
	if secondRec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	rl := newRateLimiter(1, time.Minute, shared.ClientIP)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if !rl.enforce(httptest.NewRecorder(), req) {
		t.Fatal("expected first request to pass")
	}
	if rl.enforce(httptest.NewRecorder(), req) {
		t.Fatal("expected second request to be limited")
	}
	now = now.Add(61 * time.Second)
	if !rl.enforce(httptest.NewRecorder(), req) {
		t.Fatal("expected request after window to pass")
	}
}

func TestSensitiveRateLimitThrottlesLoginPerEmail(t *testing.T) {
	limited := SensitiveRateLimit(4, time.Minute)(noContent())

	send := func(ip, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.1:1", `{"email":"a@example.com"}`); code != http.StatusNoContent {
		t.Fatalf("expected first login to pass, got %d", code)
	}
	if code := send("203.0.113.2:1", `{"email":"A@example.com"}`); code != http.StatusTooManyRequests {
		t.Fatalf("expected same email from another IP to be limited, got %d", code)
	}
}

func TestSensitiveRateLimitIgnoresReads(t *testing.T) {
	limited := SensitiveRateLimit(1, time.Minute)(noContent())
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected reads to pass, got %d", rec.Code)
		}
	}
}
