package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/shopfront-labs/shopfront-backend/pkg/auth"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
)

type stubSessionChecker struct {
	loggedIn bool
	err      error
}

func (s stubSessionChecker) IsLoggedIn(ctx context.Context) (bool, error) {
	return s.loggedIn, s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopfront",
		ExpirationMinutes: 30,
	}
}

func mintToken(t *testing.T) string {
	t.Helper()
	token, err := pkgauth.MintSessionToken(testJWTConfig(), time.Now(), pkgauth.SessionTokenPayload{
		Username: "johnd",
		Email:    "johnd@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func authProtected(checker SessionChecker, capture *string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = UsernameFromContext(r.Context())
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return Auth(testJWTConfig(), checker, nil)(next)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := authProtected(stubSessionChecker{loggedIn: true}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := authProtected(stubSessionChecker{loggedIn: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsWhenLoginFlagCleared(t *testing.T) {
	handler := authProtected(stubSessionChecker{loggedIn: false}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsUsernameContext(t *testing.T) {
	var username string
	handler := authProtected(stubSessionChecker{loggedIn: true}, &username)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if username != "johnd" {
		t.Fatalf("expected username in context, got %q", username)
	}
}
