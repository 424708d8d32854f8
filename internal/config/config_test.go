package config

import (
	"strings"
	"testing"
)

func TestLoadProductionRequiresRealSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/radar")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REFRESH_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}

	t.Setenv("JWT_SECRET", "prod-access-secret")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "REFRESH_SECRET") {
		t.Fatalf("expected REFRESH_SECRET error, got %v", err)
	}

	t.Setenv("REFRESH_SECRET", "prod-refresh-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTSecret != "prod-access-secret" || cfg.RefreshSecret != "prod-refresh-secret" {
		t.Fatalf("unexpected secrets: %q %q", cfg.JWTSecret, cfg.RefreshSecret)
	}
}

func TestLoadDevFallsBackToLocalSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REFRESH_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTSecret == "" || cfg.RefreshSecret == "" {
		t.Fatal("expected dev fallback secrets")
	}
}
