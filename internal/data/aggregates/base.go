package aggregates

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

// BaseDeps is what every aggregate needs to run a write.
type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks

	// LockTimeout applies to the default runner only.
	LockTimeout time.Duration
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB, WithLockTimeout(d.LockTimeout))
	}
	return d
}

// executeWrite runs fn in one transaction under a span named op and reports
// the outcome to Hooks. The returned error is always a *domainagg.Error or nil.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	started := time.Now()

	ctx, span := observability.Tracer().Start(ctx, op)
	defer span.End()

	err := MapError(op, deps.Runner.InTx(ctx, fn))
	evt := WriteEvent{
		Op:       op,
		Status:   aggregateErrorStatus(err),
		Reason:   rejectionReason(err),
		Duration: time.Since(started),
	}
	span.SetAttributes(attribute.String("aggregate.status", evt.Status))
	if err != nil {
		span.SetStatus(codes.Error, evt.Status)
		if evt.Reason != "" {
			span.SetAttributes(attribute.String("recipe.rejection", evt.Reason))
		}
	}
	deps.Hooks.WriteFinished(evt)
	return err
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	if code := domainagg.CodeOf(MapError("", err)); code != "" {
		return string(code)
	}
	return "failure"
}
