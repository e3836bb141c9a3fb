package aggregates

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
)

// TxRunner owns the transaction boundary of an aggregate write.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type TxOption func(*gormTxRunner)

// WithLockTimeout bounds how long a write waits on row locks (postgres only).
// A timed out lock surfaces as SQLSTATE 55P03, which MapError reports as retryable.
func WithLockTimeout(d time.Duration) TxOption {
	return func(r *gormTxRunner) { r.lockTimeout = d }
}

type gormTxRunner struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewGormTxRunner(db *gorm.DB, opts ...TxOption) TxRunner {
	r := &gormTxRunner{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
