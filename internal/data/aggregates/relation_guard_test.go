package aggregates

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	repotest "github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
)

func TestBFSReachability(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	g := NewAdjacencyGraph([]types.RecipeEdge{
		{ParentRecipeID: a, ChildRecipeID: b},
		{ParentRecipeID: b, ChildRecipeID: c},
		{ParentRecipeID: a, ChildRecipeID: c},
	})
	bfs := BFSReachability{}

	if !bfs.Reachable(g, a, c) {
		t.Fatalf("a->c: want reachable")
	}
	if bfs.Reachable(g, c, a) {
		t.Fatalf("c->a: want unreachable")
	}
	if bfs.Reachable(g, a, d) {
		t.Fatalf("a->d: want unreachable")
	}
	if !bfs.Reachable(g, d, d) {
		t.Fatalf("d->d: a node reaches itself")
	}
}

func TestBFSReachabilityTerminatesOnCycles(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	g := AdjacencyGraph{}
	g.AddEdge(a, b)
	g.AddEdge(b, a)
	if (BFSReachability{}).Reachable(g, a, c) {
		t.Fatalf("a->c: want unreachable")
	}
}

func newGuardFixture(t *testing.T) (RelationGraphGuard, dbctx.Context, repos.RecipeRepos) {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	r := repos.NewRecipeRepos(tx, repotest.Logger(t))
	guard := NewRelationGraphGuard(r.Recipes, NewRepoGraphLoader(r.Relations), nil)
	return guard, dbctx.Context{Ctx: context.Background(), Tx: tx}, r
}

func TestRelationGraphGuard_ValidateChildRecipeOwnership(t *testing.T) {
	guard, dbc, _ := newGuardFixture(t)
	ctx := dbc.Ctx

	owner := repotest.SeedUser(t, ctx, dbc.Tx)
	other := repotest.SeedUser(t, ctx, dbc.Tx)
	mine := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "dashi")
	mine2 := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "tare")
	theirs := repotest.SeedRecipe(t, ctx, dbc.Tx, other.ID, "ponzu")

	ok, err := guard.ValidateChildRecipeOwnership(dbc, owner.ID, nil)
	if err != nil || !ok {
		t.Fatalf("empty: want=true got=%v err=%v", ok, err)
	}
	ok, err = guard.ValidateChildRecipeOwnership(dbc, owner.ID, []uuid.UUID{mine.ID, mine2.ID})
	if err != nil || !ok {
		t.Fatalf("owned: want=true got=%v err=%v", ok, err)
	}
	ok, err = guard.ValidateChildRecipeOwnership(dbc, owner.ID, []uuid.UUID{mine.ID, theirs.ID})
	if err != nil || ok {
		t.Fatalf("foreign: want=false got=%v err=%v", ok, err)
	}
	ok, err = guard.ValidateChildRecipeOwnership(dbc, owner.ID, []uuid.UUID{mine.ID, uuid.New()})
	if err != nil || ok {
		t.Fatalf("unknown: want=false got=%v err=%v", ok, err)
	}
}

func TestRelationGraphGuard_CheckCircularReference(t *testing.T) {
	guard, dbc, _ := newGuardFixture(t)
	ctx := dbc.Ctx

	owner := repotest.SeedUser(t, ctx, dbc.Tx)
	a := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "a")
	b := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "b")
	c := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "c")
	repotest.SeedRelation(t, ctx, dbc.Tx, a.ID, b.ID)
	repotest.SeedRelation(t, ctx, dbc.Tx, b.ID, c.ID)

	cycle, err := guard.CheckCircularReference(dbc, c.ID, a.ID)
	if err != nil || !cycle {
		t.Fatalf("c->a closes a->b->c: want=true got=%v err=%v", cycle, err)
	}
	cycle, err = guard.CheckCircularReference(dbc, a.ID, c.ID)
	if err != nil || cycle {
		t.Fatalf("a->c shortcut: want=false got=%v err=%v", cycle, err)
	}
	cycle, err = guard.CheckCircularReference(dbc, b.ID, b.ID)
	if err != nil || !cycle {
		t.Fatalf("self-loop: want=true got=%v err=%v", cycle, err)
	}
}

func TestRelationGraphGuard_CheckCircularReferencesBatch(t *testing.T) {
	guard, dbc, _ := newGuardFixture(t)
	ctx := dbc.Ctx

	owner := repotest.SeedUser(t, ctx, dbc.Tx)
	a := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "a")
	b := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "b")
	c := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "c")
	d := repotest.SeedRecipe(t, ctx, dbc.Tx, owner.ID, "d")
	repotest.SeedRelation(t, ctx, dbc.Tx, b.ID, a.ID)

	cyclic, err := guard.CheckCircularReferences(dbc, owner.ID, a.ID, []uuid.UUID{c.ID, b.ID, a.ID, d.ID})
	if err != nil {
		t.Fatalf("CheckCircularReferences: %v", err)
	}
	if len(cyclic) != 2 || cyclic[0] != b.ID || cyclic[1] != a.ID {
		t.Fatalf("cyclic: want=[b a] got=%v", cyclic)
	}
}

type staticGraphLoader struct {
	graph AdjacencyGraph
}

func (l staticGraphLoader) LoadUserGraph(dbctx.Context, uuid.UUID) (AdjacencyGraph, error) {
	out := AdjacencyGraph{}
	for p, cs := range l.graph {
		out[p] = append([]uuid.UUID(nil), cs...)
	}
	return out, nil
}

func (l staticGraphLoader) LoadReachable(dbc dbctx.Context, _ uuid.UUID) (AdjacencyGraph, error) {
	return l.LoadUserGraph(dbc, uuid.Nil)
}

func TestRelationGraphGuard_DiamondIsAcyclic(t *testing.T) {
	p, c1, c2 := uuid.New(), uuid.New(), uuid.New()
	g := AdjacencyGraph{}
	g.AddEdge(c2, c1)
	guard := NewRelationGraphGuard(nil, staticGraphLoader{graph: g}, nil)

	cyclic, err := guard.CheckCircularReferences(dbctx.Context{Ctx: context.Background()}, uuid.New(), p, []uuid.UUID{c1, c2})
	if err != nil {
		t.Fatalf("CheckCircularReferences: %v", err)
	}
	if len(cyclic) != 0 {
		t.Fatalf("diamond under one parent is acyclic, got=%v", cyclic)
	}
}
