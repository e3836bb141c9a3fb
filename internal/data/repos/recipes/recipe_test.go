package recipes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
)

func TestRecipeRepo_OwnershipScopedLookups(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx)
	other := testutil.SeedUser(t, ctx, tx)

	repo := NewRecipeRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.Recipe{{UserID: owner.ID, Title: "curry"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[0].ID
	if id == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}

	got, err := repo.GetOwnedByID(dbc, owner.ID, id)
	if err != nil || got == nil || got.Title != "curry" {
		t.Fatalf("GetOwnedByID(owner): got=%+v err=%v", got, err)
	}
	foreign, err := repo.GetOwnedByID(dbc, other.ID, id)
	if err != nil || foreign != nil {
		t.Fatalf("GetOwnedByID(other): want=nil got=%+v err=%v", foreign, err)
	}

	locked, err := repo.LockOwnedByID(dbc, owner.ID, id)
	if err != nil || locked == nil {
		t.Fatalf("LockOwnedByID(owner): got=%+v err=%v", locked, err)
	}
	lockedForeign, err := repo.LockOwnedByID(dbc, other.ID, id)
	if err != nil || lockedForeign != nil {
		t.Fatalf("LockOwnedByID(other): want=nil got=%+v err=%v", lockedForeign, err)
	}

	ok, err := repo.ExistsOwned(dbc, owner.ID, id)
	if err != nil || !ok {
		t.Fatalf("ExistsOwned(owner): want=true got=%v err=%v", ok, err)
	}
	ok, err = repo.ExistsOwned(dbc, other.ID, id)
	if err != nil || ok {
		t.Fatalf("ExistsOwned(other): want=false got=%v err=%v", ok, err)
	}

	second := testutil.SeedRecipe(t, ctx, tx, owner.ID, "sauce")
	foreignRecipe := testutil.SeedRecipe(t, ctx, tx, other.ID, "not yours")
	n, err := repo.CountOwned(dbc, owner.ID, []uuid.UUID{id, second.ID, second.ID, foreignRecipe.ID, uuid.New()})
	if err != nil {
		t.Fatalf("CountOwned: %v", err)
	}
	if n != 2 {
		t.Fatalf("CountOwned: want=2 got=%d", n)
	}
}

func TestRecipeRepo_UpdateAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx)
	rec := testutil.SeedRecipe(t, ctx, tx, owner.ID, "before")

	repo := NewRecipeRepo(db, testutil.Logger(t))
	if err := repo.UpdateFields(dbc, rec.ID, map[string]interface{}{"title": "after", "memo": "note"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, rec.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if got.Title != "after" || got.Memo != "note" {
		t.Fatalf("UpdateFields: want=after/note got=%s/%s", got.Title, got.Memo)
	}

	if err := repo.DeleteByID(dbc, rec.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	gone, err := repo.GetByID(dbc, rec.ID)
	if err != nil || gone != nil {
		t.Fatalf("GetByID after delete: want=nil got=%+v err=%v", gone, err)
	}
}

func TestRecipeRepo_ListByUserFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx)
	other := testutil.SeedUser(t, ctx, tx)

	curry := testutil.SeedRecipe(t, ctx, tx, owner.ID, "Green Curry")
	soup := testutil.SeedRecipe(t, ctx, tx, owner.ID, "Miso Soup")
	pct := testutil.SeedRecipe(t, ctx, tx, owner.ID, "100% rye")
	testutil.SeedRecipe(t, ctx, tx, other.ID, "Red Curry")

	spicy := testutil.SeedSystemTag(t, ctx, tx, "spicy")
	quick := testutil.SeedUserTag(t, ctx, tx, owner.ID, "quick")
	testutil.SeedRecipeTag(t, ctx, tx, curry.ID, spicy.ID)
	testutil.SeedRecipeTag(t, ctx, tx, curry.ID, quick.ID)
	testutil.SeedRecipeTag(t, ctx, tx, soup.ID, quick.ID)

	repo := NewRecipeRepo(db, testutil.Logger(t))

	all, err := repo.ListByUser(dbc, owner.ID, ListFilter{})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListByUser(all): want=3 got=%d", len(all))
	}

	byQuery, err := repo.ListByUser(dbc, owner.ID, ListFilter{Query: "curry"})
	if err != nil {
		t.Fatalf("ListByUser(query): %v", err)
	}
	if len(byQuery) != 1 || byQuery[0].ID != curry.ID {
		t.Fatalf("ListByUser(query): want=[%s] got=%+v", curry.ID, byQuery)
	}

	literal, err := repo.ListByUser(dbc, owner.ID, ListFilter{Query: "%"})
	if err != nil {
		t.Fatalf("ListByUser(percent): %v", err)
	}
	if len(literal) != 1 || literal[0].ID != pct.ID {
		t.Fatalf("ListByUser(percent): wildcard must match literally, got=%+v", literal)
	}

	oneTag, err := repo.ListByUser(dbc, owner.ID, ListFilter{TagIDs: []uuid.UUID{quick.ID}})
	if err != nil {
		t.Fatalf("ListByUser(one tag): %v", err)
	}
	if len(oneTag) != 2 {
		t.Fatalf("ListByUser(one tag): want=2 got=%d", len(oneTag))
	}

	bothTags, err := repo.ListByUser(dbc, owner.ID, ListFilter{TagIDs: []uuid.UUID{quick.ID, spicy.ID}})
	if err != nil {
		t.Fatalf("ListByUser(two tags): %v", err)
	}
	if len(bothTags) != 1 || bothTags[0].ID != curry.ID {
		t.Fatalf("ListByUser(two tags): want=[%s] got=%+v", curry.ID, bothTags)
	}
}
