package testutil

import (
	"context"
	"errors"
	"testing"

	repotest "github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
)

func TestInjectedTxRunner_CommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if b, c, rb := r.Counts(); b != 1 || c != 1 || rb != 0 {
		t.Fatalf("counters: want=1/1/0 got=%d/%d/%d", b, c, rb)
	}
}

func TestInjectedTxRunner_RollbackOnBodyError(t *testing.T) {
	r := &InjectedTxRunner{}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Fatalf("expected body err, got %v", err)
	}
	if b, c, rb := r.Counts(); b != 1 || c != 0 || rb != 1 {
		t.Fatalf("counters: want=1/0/1 got=%d/%d/%d", b, c, rb)
	}
}

func TestInjectedTxRunner_FailBeginSkipsBody(t *testing.T) {
	beginErr := errors.New("begin failed")
	r := &InjectedTxRunner{FailBegin: beginErr}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, beginErr) || called {
		t.Fatalf("want begin err without body, got err=%v called=%v", err, called)
	}
}

func TestInjectedTxRunner_FailCommitRollsBackRealWrites(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	user := repotest.SeedUser(t, ctx, tx)

	commitErr := errors.New("commit failed")
	r := &InjectedTxRunner{DB: tx, FailCommit: commitErr}
	err := r.InTx(ctx, func(dbc dbctx.Context) error {
		return dbc.Tx.Create(&types.Recipe{UserID: user.ID, Title: "discarded"}).Error
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	var n int64
	if err := tx.Model(&types.Recipe{}).Where("user_id = ?", user.ID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("recipe rows: want=0 got=%d", n)
	}
	if _, c, rb := r.Counts(); c != 0 || rb != 1 {
		t.Fatalf("counters: want commit=0 rollback=1 got=%d/%d", c, rb)
	}
}
