package aggregates

import (
	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
)

const (
	msgInvalidChildren = "無効な子レシピが含まれています"
	msgDuplicateChild  = "子レシピが重複しています"
	msgCycleDetected   = "循環参照が検出されました"
)

// AdjacencyGraph maps a parent recipe to the children it uses.
type AdjacencyGraph map[uuid.UUID][]uuid.UUID

func NewAdjacencyGraph(edges []types.RecipeEdge) AdjacencyGraph {
	g := make(AdjacencyGraph, len(edges))
	for _, e := range edges {
		g.AddEdge(e.ParentRecipeID, e.ChildRecipeID)
	}
	return g
}

func (g AdjacencyGraph) AddEdge(parent, child uuid.UUID) {
	g[parent] = append(g[parent], child)
}

func (g AdjacencyGraph) Children(id uuid.UUID) []uuid.UUID {
	return g[id]
}

// GraphLoader materializes the persisted composition edges.
type GraphLoader interface {
	// LoadUserGraph returns every edge whose parent is owned by userID.
	LoadUserGraph(dbc dbctx.Context, userID uuid.UUID) (AdjacencyGraph, error)
	// LoadReachable returns the subgraph reachable from root.
	LoadReachable(dbc dbctx.Context, root uuid.UUID) (AdjacencyGraph, error)
}

// ReachabilityChecker answers whether to can be reached from from along g's edges.
type ReachabilityChecker interface {
	Reachable(g AdjacencyGraph, from, to uuid.UUID) bool
}

// BFSReachability walks the graph breadth-first from the start node.
type BFSReachability struct{}

func (BFSReachability) Reachable(g AdjacencyGraph, from, to uuid.UUID) bool {
	if from == to {
		return true
	}
	visited := map[uuid.UUID]bool{from: true}
	queue := []uuid.UUID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Children(cur) {
			if next == to {
				return true
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}

type repoGraphLoader struct {
	relations repos.RecipeRelationRepo
}

func NewRepoGraphLoader(relations repos.RecipeRelationRepo) GraphLoader {
	return &repoGraphLoader{relations: relations}
}

func (l *repoGraphLoader) LoadUserGraph(dbc dbctx.Context, userID uuid.UUID) (AdjacencyGraph, error) {
	edges, err := l.relations.ListEdgesForUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	return NewAdjacencyGraph(edges), nil
}

// LoadReachable expands one frontier per query.
func (l *repoGraphLoader) LoadReachable(dbc dbctx.Context, root uuid.UUID) (AdjacencyGraph, error) {
	g := AdjacencyGraph{}
	visited := map[uuid.UUID]bool{root: true}
	frontier := []uuid.UUID{root}
	for len(frontier) > 0 {
		edges, err := l.relations.ListEdgesFromParents(dbc, frontier)
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, e := range edges {
			g.AddEdge(e.ParentRecipeID, e.ChildRecipeID)
			if !visited[e.ChildRecipeID] {
				visited[e.ChildRecipeID] = true
				frontier = append(frontier, e.ChildRecipeID)
			}
		}
	}
	return g, nil
}

// RelationGraphGuard decides whether a set of composition edges may be written.
type RelationGraphGuard interface {
	// ValidateChildRecipeOwnership is true iff every child id names a recipe owned by userID.
	ValidateChildRecipeOwnership(dbc dbctx.Context, userID uuid.UUID, childIDs []uuid.UUID) (bool, error)
	// CheckCircularReference is true when parent -> child would close a cycle.
	CheckCircularReference(dbc dbctx.Context, parentID, childID uuid.UUID) (bool, error)
	// CheckCircularReferences returns the children, in input order, whose edge from parentID would close a cycle.
	CheckCircularReferences(dbc dbctx.Context, userID, parentID uuid.UUID, childIDs []uuid.UUID) ([]uuid.UUID, error)
}

type relationGraphGuard struct {
	recipes repos.RecipeRepo
	loader  GraphLoader
	checker ReachabilityChecker
}

func NewRelationGraphGuard(recipes repos.RecipeRepo, loader GraphLoader, checker ReachabilityChecker) RelationGraphGuard {
	if checker == nil {
		checker = BFSReachability{}
	}
	return &relationGraphGuard{recipes: recipes, loader: loader, checker: checker}
}

func (g *relationGraphGuard) ValidateChildRecipeOwnership(dbc dbctx.Context, userID uuid.UUID, childIDs []uuid.UUID) (bool, error) {
	if len(childIDs) == 0 {
		return true, nil
	}
	if userID == uuid.Nil {
		return false, nil
	}
	distinct := make(map[uuid.UUID]struct{}, len(childIDs))
	for _, id := range childIDs {
		if id == uuid.Nil {
			return false, nil
		}
		distinct[id] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(distinct))
	for id := range distinct {
		ids = append(ids, id)
	}
	n, err := g.recipes.CountOwned(dbc, userID, ids)
	if err != nil {
		return false, err
	}
	return n == int64(len(ids)), nil
}

func (g *relationGraphGuard) CheckCircularReference(dbc dbctx.Context, parentID, childID uuid.UUID) (bool, error) {
	if parentID == childID {
		return true, nil
	}
	graph, err := g.loader.LoadReachable(dbc, childID)
	if err != nil {
		return false, err
	}
	return g.checker.Reachable(graph, childID, parentID), nil
}

// CheckCircularReferences checks each candidate against the persisted graph plus the
// candidates accepted before it, so a batch can never close a cycle among its own edges.
func (g *relationGraphGuard) CheckCircularReferences(dbc dbctx.Context, userID, parentID uuid.UUID, childIDs []uuid.UUID) ([]uuid.UUID, error) {
	var cyclic []uuid.UUID
	if len(childIDs) == 0 {
		return cyclic, nil
	}
	graph, err := g.loader.LoadUserGraph(dbc, userID)
	if err != nil {
		return nil, err
	}
	for _, childID := range childIDs {
		if parentID == childID || g.checker.Reachable(graph, childID, parentID) {
			cyclic = append(cyclic, childID)
			continue
		}
		graph.AddEdge(parentID, childID)
	}
	return cyclic, nil
}
