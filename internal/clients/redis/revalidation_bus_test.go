package redis

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

func TestNewRevalidationBusRequiresAddr(t *testing.T) {
	if _, err := NewRevalidationBus(logger.NewNop(), Config{}); err == nil || !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Fatalf("missing addr: want REDIS_ADDR error got=%v", err)
	}
	if _, err := NewRevalidationBus(nil, Config{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("nil logger: expected error")
	}
}

func TestNilBusIsSafe(t *testing.T) {
	var b *revalidationBus
	if err := b.Publish(context.Background(), types.RecipeChangedEvent{Action: types.RecipeCreated}); err == nil {
		t.Fatalf("publish on nil bus: expected error")
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close on nil bus: %v", err)
	}
}

func TestDecodeEventRejectsMissingAction(t *testing.T) {
	if _, err := decodeEvent(`{"recipeId":"` + uuid.NewString() + `"}`); err == nil {
		t.Fatalf("expected error for event without action")
	}
	if _, err := decodeEvent(`not json`); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestEncodeEventStampsOccurredAt(t *testing.T) {
	raw, err := encodeEvent(types.RecipeChangedEvent{Action: types.RecipeDeleted, RecipeID: uuid.New()})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	evt, err := decodeEvent(string(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt.OccurredAt.IsZero() || evt.Action != types.RecipeDeleted {
		t.Fatalf("decoded: got=%+v", evt)
	}
}

func TestNoopBus(t *testing.T) {
	var b RevalidationBus = NoopBus{}
	if err := b.Publish(context.Background(), types.RecipeChangedEvent{}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
	if err := b.StartForwarder(context.Background(), nil); err != nil {
		t.Fatalf("noop forwarder: %v", err)
	}
}

// Runs against a live server only when TEST_REDIS_ADDR is set.
func TestRevalidationBusRoundTrip(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	bus, err := NewRevalidationBus(logger.NewNop(), Config{Addr: addr, Channel: "recipe.changed.test." + uuid.NewString()})
	if err != nil {
		t.Fatalf("NewRevalidationBus: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan types.RecipeChangedEvent, 1)
	if err := bus.StartForwarder(ctx, func(evt types.RecipeChangedEvent) { got <- evt }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	want := types.RecipeChangedEvent{Action: types.RecipeUpdated, RecipeID: uuid.New(), Version: 2}
	if err := bus.Publish(ctx, want); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case evt := <-got:
		if evt.RecipeID != want.RecipeID || evt.Version != 2 {
			t.Fatalf("event: want=%+v got=%+v", want, evt)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for event")
	}
}
