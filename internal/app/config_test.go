package app

import (
	"testing"
	"time"

	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "POSTGRES_DSN", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "ACCESS_TOKEN_TTL", "OTEL_ENABLED", "AGGREGATE_LOCK_TIMEOUT_MS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.NewNop())
	if cfg.Port != "8080" {
		t.Fatalf("port: want=8080 got=%q", cfg.Port)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Fatalf("access ttl: want=1h got=%s", cfg.AccessTokenTTL)
	}
	if cfg.AggregateLockTimeout != 5*time.Second {
		t.Fatalf("lock timeout: want=5s got=%s", cfg.AggregateLockTimeout)
	}
	if cfg.RedisAddr != "" || cfg.RedisChannel != "recipe.changed" {
		t.Fatalf("redis: got addr=%q channel=%q", cfg.RedisAddr, cfg.RedisChannel)
	}
	if cfg.Otel.Enabled || cfg.Otel.SampleRatio != 1.0 {
		t.Fatalf("otel: got=%+v", cfg.Otel)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors: want none got=%v", cfg.CORSOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_DSN", "postgres://cook@db/recipes")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("METRICS_ENABLED", "off")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.25")

	cfg := LoadConfig(logger.NewNop())
	if cfg.Port != "9090" || cfg.Postgres.ConnString() != "postgres://cook@db/recipes" {
		t.Fatalf("port/dsn: got port=%q dsn=%q", cfg.Port, cfg.Postgres.ConnString())
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("cors: got=%v", cfg.CORSOrigins)
	}
	if cfg.MetricsEnabled {
		t.Fatalf("metrics: want disabled")
	}
	if cfg.Otel.SampleRatio != 0.25 {
		t.Fatalf("sample ratio: want=0.25 got=%v", cfg.Otel.SampleRatio)
	}
}
