package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
limits:
  likes_per_window: 5
  like_rate_per_min: 10
feed:
  max_limit: 25
cleanup:
  interval: 2h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Limits.LikesPerWindow != 5 {
		t.Fatalf("unexpected likes per window: %d", cfg.Limits.LikesPerWindow)
	}
	if cfg.Limits.LikeRatePerMin != 10 {
		t.Fatalf("unexpected like rate/min: %d", cfg.Limits.LikeRatePerMin)
	}
	if cfg.Feed.MaxLimit != 25 {
		t.Fatalf("unexpected feed max limit: %d", cfg.Feed.MaxLimit)
	}
	if cfg.Cleanup.Interval != 2*time.Hour {
		t.Fatalf("unexpected cleanup interval: %s", cfg.Cleanup.Interval)
	}

	if cfg.Limits.LikeRatePer10Sec != 12 {
		t.Fatalf("like_rate_per_10sec default should stay 12, got %d", cfg.Limits.LikeRatePer10Sec)
	}
	if cfg.Feed.DefaultLimit != 20 {
		t.Fatalf("feed default_limit default should stay 20, got %d", cfg.Feed.DefaultLimit)
	}
	if cfg.Auth.JWTAccessTTL != 15*time.Minute {
		t.Fatalf("unexpected default access ttl: %s", cfg.Auth.JWTAccessTTL)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Limits.LikesPerWindow != 20 {
		t.Fatalf("unexpected default likes per window: %d", cfg.Limits.LikesPerWindow)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Cleanup.Interval != 6*time.Hour {
		t.Fatalf("unexpected default cleanup interval: %s", cfg.Cleanup.Interval)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("LIKES_PER_WINDOW", "3")
	t.Setenv("REFRESH_TTL", "168h")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env override for addr ignored: %s", cfg.HTTP.Addr)
	}
	if cfg.Limits.LikesPerWindow != 3 {
		t.Fatalf("env override for likes ignored: %d", cfg.Limits.LikesPerWindow)
	}
	if cfg.Auth.RefreshTTL != 168*time.Hour {
		t.Fatalf("env override for refresh ttl ignored: %s", cfg.Auth.RefreshTTL)
	}
}

func TestLoadRejectsBadDurationEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for malformed duration env")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_PUBLIC_URL",
		"S3_USE_SSL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"REFRESH_TTL",
		"GOOGLE_CLIENT_ID",
		"GOOGLE_CLIENT_SECRET",
		"GOOGLE_REDIRECT_URI",
		"LIKES_PER_WINDOW",
		"CLEANUP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}
