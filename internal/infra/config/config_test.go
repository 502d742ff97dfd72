package config

import (
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "2m")
	t.Setenv("REFRESH_TOKEN_TTL", "3h")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("PASSWORD_PEPPER", "pepper")
	t.Setenv("JWT_ISSUER", "my-svc")
	// необязательные, но пусть будут
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("ALLOW_CREDENTIALS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("AccessTokenTTL want 2m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 3*time.Hour {
		t.Fatalf("RefreshTokenTTL want 3h, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.Issuer != "my-svc" {
		t.Fatalf("Issuer want my-svc, got %q", cfg.Issuer)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("AllowedOrigins parsed wrong: %v", cfg.AllowedOrigins)
	}
	if !cfg.AllowCredentials || !cfg.RefreshRotation() {
		t.Fatal("credentials and rotation must be enabled")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AccessTokenTTL != time.Hour || cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("default TTLs wrong: %v / %v", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
	if cfg.Issuer != "autobe" {
		t.Fatalf("default issuer wrong: %q", cfg.Issuer)
	}
	if cfg.RefreshRotation() {
		t.Fatal("rotation must be off without redis")
	}
	if cfg.HTTPAddress != ":8080" || cfg.GRPCAddress != ":50051" {
		t.Fatalf("default addresses wrong: %s %s", cfg.HTTPAddress, cfg.GRPCAddress)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// задаём всё, КРОМЕ JWT_SECRET
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing JWT_SECRET, got nil")
	}
}

func TestLoad_AccessMustBeShorterThanRefresh(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "8h")
	t.Setenv("REFRESH_TOKEN_TTL", "1h")

	if _, err := Load(); err == nil {
		t.Fatal("expected TTL ordering error")
	}
}
