package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

const DefaultChannel = "recipe.changed"

type RevalidationBus interface {
	Publish(ctx context.Context, evt types.RecipeChangedEvent) error
	StartForwarder(ctx context.Context, onEvt func(evt types.RecipeChangedEvent)) error
	Close() error
}

type Config struct {
	Addr        string
	Channel     string
	DialTimeout time.Duration
}

type revalidationBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewRevalidationBus(log *logger.Logger, cfg Config) (RevalidationBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = DefaultChannel
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &revalidationBus{
		log:     log.With("service", "RedisRevalidationBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *revalidationBus) Publish(ctx context.Context, evt types.RecipeChangedEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis revalidation bus not initialized")
	}
	raw, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *revalidationBus) StartForwarder(ctx context.Context, onEvt func(evt types.RecipeChangedEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis revalidation bus not initialized")
	}
	if onEvt == nil {
		return fmt.Errorf("onEvt callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				evt, err := decodeEvent(m.Payload)
				if err != nil {
					b.log.Warn("bad redis revalidation payload", "error", err)
					continue
				}
				onEvt(evt)
			}
		}
	}()

	return nil
}

func (b *revalidationBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func encodeEvent(evt types.RecipeChangedEvent) ([]byte, error) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	return json.Marshal(evt)
}

func decodeEvent(payload string) (types.RecipeChangedEvent, error) {
	var evt types.RecipeChangedEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return evt, err
	}
	if strings.TrimSpace(string(evt.Action)) == "" {
		return evt, fmt.Errorf("revalidation event missing action")
	}
	return evt, nil
}

// NoopBus is used when REDIS_ADDR is unset; publishes are dropped.
type NoopBus struct{}

func (NoopBus) Publish(context.Context, types.RecipeChangedEvent) error { return nil }

func (NoopBus) StartForwarder(context.Context, func(types.RecipeChangedEvent)) error { return nil }

func (NoopBus) Close() error { return nil }
