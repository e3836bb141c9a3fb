package app

import (
	"time"

	"github.com/yungbote/recipebook-backend/internal/data/db"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/pkg/envutil"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type Config struct {
	Port string

	Postgres db.PostgresConfig

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	AggregateLockTimeout time.Duration

	RedisAddr    string
	RedisChannel string

	MetricsEnabled bool
	MetricsAddr    string
	Otel           observability.OtelConfig

	CORSOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	return Config{
		Port: envutil.GetEnv("PORT", "8080", log),
		Postgres: db.PostgresConfig{
			DSN:             envutil.GetEnv("POSTGRES_DSN", "", log),
			Host:            envutil.GetEnv("POSTGRES_HOST", "localhost", log),
			Port:            envutil.GetEnv("POSTGRES_PORT", "5432", log),
			User:            envutil.GetEnv("POSTGRES_USER", "postgres", log),
			Password:        envutil.GetEnv("POSTGRES_PASSWORD", "", log),
			Name:            envutil.GetEnv("POSTGRES_NAME", "recipebook", log),
			SSLMode:         envutil.GetEnv("POSTGRES_SSLMODE", "disable", log),
			MaxOpenConns:    envutil.GetEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 20, log),
			MaxIdleConns:    envutil.GetEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5, log),
			ConnMaxLifetime: time.Duration(envutil.GetEnvAsInt("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 1800, log)) * time.Second,
		},
		JWTSecretKey:         envutil.GetEnv("JWT_SECRET_KEY", "", log),
		AccessTokenTTL:       time.Duration(accessTokenTTLSeconds) * time.Second,
		AggregateLockTimeout: time.Duration(envutil.GetEnvAsInt("AGGREGATE_LOCK_TIMEOUT_MS", 5000, log)) * time.Millisecond,
		RedisAddr:            envutil.GetEnv("REDIS_ADDR", "", log),
		RedisChannel:         envutil.GetEnv("REDIS_CHANNEL", "recipe.changed", log),
		MetricsEnabled:       envutil.GetEnvAsBool("METRICS_ENABLED", true, log),
		MetricsAddr:          envutil.GetEnv("METRICS_ADDR", "", log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
			ServiceName: envutil.GetEnv("OTEL_SERVICE_NAME", "recipebook-backend", log),
			Environment: envutil.GetEnv("APP_ENV", "development", log),
			Version:     envutil.GetEnv("APP_VERSION", "dev", log),
			Endpoint:    envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.GetEnvAsFloat("OTEL_SAMPLER_RATIO", 1.0, log),
		},
		CORSOrigins: envutil.GetEnvAsList("CORS_ALLOWED_ORIGINS", nil, log),
	}
}
