package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/recipebook-backend/internal/clients/redis"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type Clients struct {
	Revalidation redis.RevalidationBus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var bus redis.RevalidationBus = redis.NoopBus{}
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		b, err := redis.NewRevalidationBus(log, redis.Config{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis revalidation bus: %w", err)
		}
		bus = b
	} else {
		log.Info("REDIS_ADDR not set, revalidation events are dropped")
	}
	return Clients{Revalidation: bus}, nil
}
