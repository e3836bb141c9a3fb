package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	repotest "github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipebook-backend/internal/domain"
	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
)

func TestGormTxRunnerWithoutDB(t *testing.T) {
	err := NewGormTxRunner(nil).InTx(context.Background(), func(dbctx.Context) error { return nil })
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("want internal got=%v", err)
	}
}

func TestGormTxRunnerRollsBackOnError(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	user := repotest.SeedUser(t, ctx, tx)

	runner := NewGormTxRunner(tx, WithLockTimeout(time.Second))
	boom := errors.New("boom")
	err := runner.InTx(ctx, func(dbc dbctx.Context) error {
		if dbc.Tx == nil {
			t.Fatalf("expected tx handle")
		}
		if err := dbc.Tx.Create(&types.Recipe{UserID: user.ID, Title: "half written"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want body error got=%v", err)
	}
	var n int64
	if err := tx.Model(&types.Recipe{}).Where("user_id = ?", user.ID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("recipe rows after rollback: want=0 got=%d", n)
	}
}
