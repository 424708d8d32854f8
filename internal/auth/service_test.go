package auth

import (
	"context"
	"testing"
	"time"

	"github.com/radar-fin/radar_fin/internal/config"
	"github.com/radar-fin/radar_fin/internal/identity"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}
}

func registerUser(t *testing.T, ids *identity.Service) identity.User {
	t.Helper()
	user, err := ids.Register(context.Background(), identity.Profile{
		Name:     "Ana",
		Email:    "ana@example.com",
		Phone:    "11999998888",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo, "55")
	svc := NewService(testConfig(), repo)

	user := registerUser(t, ids)
	pair, err := svc.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := ParseAndVerifyHS256(pair.AccessToken, []byte("access-secret"))
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if sub, _ := claims["sub"].(string); sub != user.ID {
		t.Fatalf("expected sub %s, got %v", user.ID, claims["sub"])
	}

	if _, err := ParseAndVerifyHS256(pair.AccessToken, []byte("wrong-secret")); err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	secret := []byte("access-secret")
	expired, err := SignHS256(map[string]any{
		"sub": "user-1",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(expired, secret); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	missing, err := SignHS256(map[string]any{"sub": "user-1"}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(missing, secret); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired for missing exp, got %v", err)
	}
}

func TestRefreshAfterLogoutRejected(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo, "55")
	svc := NewService(testConfig(), repo)
	ctx := context.Background()

	user := registerUser(t, ids)
	pair, err := svc.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh before logout: %v", err)
	}

	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); err == nil {
		t.Fatalf("expected refresh to fail after logout")
	}
}
