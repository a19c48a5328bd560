package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopfront-labs/shopfront-backend/pkg/auth"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopfront-labs/shopfront-backend/pkg/kvstore"
	"github.com/shopfront-labs/shopfront-backend/pkg/security"
)

const (
	// StorageKeyUser holds the active session profile.
	StorageKeyUser = "user"
	// StorageKeyLoggedIn is the login flag checked by the auth middleware.
	StorageKeyLoggedIn = "isLoggedIn"
)

// Session is the profile of the signed-in demo user.
type Session struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult carries the minted token and the session it represents.
type LoginResult struct {
	Token string  `json:"token"`
	User  Session `json:"user"`
}

// Service gates the storefront behind the single demo account. The demo
// password is hashed once at startup; plaintext is never kept around.
type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*Session, error)
	IsLoggedIn(ctx context.Context) (bool, error)
}

type service struct {
	store        kvstore.Store
	jwt          config.JWTConfig
	demoUsername string
	demoEmail    string
	demoHash     string
	now          func() time.Time
}

// NewService hashes the configured demo credentials and wires the session store.
func NewService(store kvstore.Store, demo config.DemoUserConfig, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if demo.Username == "" || demo.Password == "" {
		return nil, fmt.Errorf("demo credentials required")
	}

	hash, err := security.HashPassword(demo.Password, pwCfg)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}

	return &service{
		store:        store,
		jwt:          jwtCfg,
		demoUsername: demo.Username,
		demoEmail:    demo.Email,
		demoHash:     hash,
		now:          time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ok, err := security.VerifyPassword(password, s.demoHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if username != s.demoUsername || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
	}

	session := Session{Username: s.demoUsername, Email: s.demoEmail}
	token, err := auth.MintSessionToken(s.jwt, s.now(), auth.SessionTokenPayload{
		Username: session.Username,
		Email:    session.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := s.store.Set(ctx, StorageKeyUser, data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}
	if err := s.store.Set(ctx, StorageKeyLoggedIn, []byte("true")); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist login flag")
	}

	return &LoginResult{Token: token, User: session}, nil
}

func (s *service) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, StorageKeyLoggedIn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear login flag")
	}
	if err := s.store.Delete(ctx, StorageKeyUser); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	return nil
}

func (s *service) Session(ctx context.Context) (*Session, error) {
	loggedIn, err := s.IsLoggedIn(ctx)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}

	data, err := s.store.Get(ctx, StorageKeyUser)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	return &session, nil
}

func (s *service) IsLoggedIn(ctx context.Context) (bool, error) {
	data, err := s.store.Get(ctx, StorageKeyLoggedIn)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load login flag")
	}
	return string(data) == "true", nil
}
