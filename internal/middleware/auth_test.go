package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func okHandler(t *testing.T, wantUser uuid.UUID, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if got := GetUserID(r.Context()); got != wantUser {
			t.Errorf("Expected user %s in context, got %s", wantUser, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidBearerToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()

	token, err := auth.GenerateAccessToken(userID, "t@example.com", "audience")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	called := false
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/delete", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	auth.Middleware(okHandler(t, userID, &called)).ServeHTTP(rr, req)

	if !called {
		t.Fatal("Expected handler to be called")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

func TestMiddleware_RejectsMissingAndMalformedTokens(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(http.MethodPost, "/api/v1/account/delete", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			auth.Middleware(okHandler(t, uuid.Nil, &called)).ServeHTTP(rr, req)

			if called {
				t.Error("Expected handler not to be called")
			}
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", rr.Code)
			}
		})
	}
}

func TestMiddleware_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTAuth("secret-a")
	verifier := NewJWTAuth("secret-b")

	token, _ := issuer.GenerateAccessToken(uuid.New(), "t@example.com", "audience")

	called := false
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/delete", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	verifier.Middleware(okHandler(t, uuid.Nil, &called)).ServeHTTP(rr, req)

	if called || rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong secret, got %d (called=%v)", rr.Code, called)
	}
}

func TestBeaconMiddleware_AcceptsQueryToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()
	token, _ := auth.GenerateAccessToken(userID, "t@example.com", "audience")

	called := false
	req := httptest.NewRequest(http.MethodPost, "/api/v1/activity-sessions/x/close?access_token="+token, nil)
	rr := httptest.NewRecorder()

	auth.BeaconMiddleware(okHandler(t, userID, &called)).ServeHTTP(rr, req)

	if !called {
		t.Fatal("Expected handler to be called with query token")
	}
}

func TestMiddleware_IgnoresQueryTokenOnHeaderOnlyRoutes(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	token, _ := auth.GenerateAccessToken(uuid.New(), "t@example.com", "audience")

	called := false
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/delete?access_token="+token, nil)
	rr := httptest.NewRecorder()

	auth.Middleware(okHandler(t, uuid.Nil, &called)).ServeHTTP(rr, req)

	if called || rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected query token to be rejected on header-only route, got %d", rr.Code)
	}
}
