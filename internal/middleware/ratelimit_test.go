package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	h := limitedHandler(NewRateLimiter(2, time.Minute))

	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", code)
	}
	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("Expected second request to pass, got %d", code)
	}
	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be limited, got %d", code)
	}
}

func TestRateLimiter_TracksClientsIndependently(t *testing.T) {
	h := limitedHandler(NewRateLimiter(1, time.Minute))

	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("Expected first client to pass, got %d", code)
	}
	if code := doRequest(h, "10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("Expected second client to pass, got %d", code)
	}
	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("Expected first client to be limited, got %d", code)
	}
}

func TestRateLimiter_WindowExpiryResetsCount(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	h := limitedHandler(rl)

	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", code)
	}
	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("Expected second request to be limited, got %d", code)
	}

	time.Sleep(30 * time.Millisecond)
	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusOK {
		t.Errorf("Expected request after window expiry to pass, got %d", code)
	}
}
