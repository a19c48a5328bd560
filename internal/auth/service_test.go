package auth

import (
	"context"
	"testing"

	pkgauth "github.com/shopfront-labs/shopfront-backend/pkg/auth"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopfront-labs/shopfront-backend/pkg/kvstore"
)

func testConfigs() (config.DemoUserConfig, config.JWTConfig, config.PasswordConfig) {
	demo := config.DemoUserConfig{
		Username: "johnd",
		Password: "m38rmF$",
		Email:    "johnd@example.com",
	}
	jwtCfg := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopfront",
		ExpirationMinutes: 30,
	}
	// Low-cost parameters keep the hash fast in tests.
	pwCfg := config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
	return demo, jwtCfg, pwCfg
}

func newTestAuth(t *testing.T) (Service, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	demo, jwtCfg, pwCfg := testConfigs()
	svc, err := NewService(store, demo, jwtCfg, pwCfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestLoginSuccess(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "johnd", "m38rmF$")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a minted token")
	}
	if result.User.Username != "johnd" || result.User.Email != "johnd@example.com" {
		t.Fatalf("unexpected session %+v", result.User)
	}

	_, jwtCfg, _ := testConfigs()
	claims, err := pkgauth.ParseSessionToken(jwtCfg, result.Token)
	if err != nil {
		t.Fatalf("minted token should parse: %v", err)
	}
	if claims.Username != "johnd" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if data, err := store.Get(ctx, StorageKeyLoggedIn); err != nil || string(data) != "true" {
		t.Fatalf("login flag not persisted: %s %v", data, err)
	}
	if _, err := store.Get(ctx, StorageKeyUser); err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "johnd", "nope"},
		{"wrong username", "alice", "m38rmF$"},
		{"empty password", "johnd", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.username, tc.password)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}

	if loggedIn, _ := svc.IsLoggedIn(ctx); loggedIn {
		t.Fatalf("failed logins must not set the login flag")
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := svc.Session(ctx); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("session before login should be unauthorized, got %v", err)
	}

	if _, err := svc.Login(ctx, "johnd", "m38rmF$"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	session, err := svc.Session(ctx)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if session.Username != "johnd" {
		t.Fatalf("unexpected session %+v", session)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if loggedIn, _ := svc.IsLoggedIn(ctx); loggedIn {
		t.Fatalf("logout should clear the login flag")
	}

	// Logging out twice is fine.
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}
