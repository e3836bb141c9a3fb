package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/data/aggregates"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
)

// InjectedTxRunner wraps aggregate writes with failure injection.
// With DB set the body runs in a real (possibly nested) transaction, so an
// injected commit failure rolls back everything the body wrote.
type InjectedTxRunner struct {
	mu sync.Mutex

	DB *gorm.DB

	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failCommit := r.FailCommit
	db := r.DB
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	body := func(tx *gorm.DB) error {
		if fn != nil {
			if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if db == nil {
		err = body(nil)
	} else {
		err = db.WithContext(ctx).Transaction(body)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}

// Counts returns begin, commit and rollback totals.
func (r *InjectedTxRunner) Counts() (begin, commit, rollback int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.BeginCalls, r.CommitCalls, r.RollbackCalls
}
