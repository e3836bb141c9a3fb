package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	types "github.com/yungbote/recipebook-backend/internal/domain"
	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/urlsanitize"
)

const (
	msgRecipeNotFound  = "レシピが見つかりません"
	msgUnauthenticated = "ログインが必要です"
)

type RecipeAggregateDeps struct {
	Base BaseDeps

	Users       repos.UserRepo
	Recipes     repos.RecipeRepo
	Ingredients repos.IngredientRepo
	Steps       repos.StepRepo
	SourceInfos repos.SourceInfoRepo
	Tags        repos.TagRepo
	RecipeTags  repos.RecipeTagRepo
	Relations   repos.RecipeRelationRepo
	Versions    repos.RecipeVersionRepo

	TagValidator TagValidator
	Graph        RelationGraphGuard
	URLs         urlsanitize.Sanitizer
	Now          func() time.Time
}

// RecipeAggregateDepsFromRepos fills the table repos from a bundle.
func RecipeAggregateDepsFromRepos(base BaseDeps, r repos.RecipeRepos) RecipeAggregateDeps {
	return RecipeAggregateDeps{
		Base:        base,
		Users:       r.Users,
		Recipes:     r.Recipes,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		SourceInfos: r.SourceInfos,
		Tags:        r.Tags,
		RecipeTags:  r.RecipeTags,
		Relations:   r.Relations,
		Versions:    r.Versions,
	}
}

type recipeAggregate struct {
	deps RecipeAggregateDeps
}

func NewRecipeAggregate(deps RecipeAggregateDeps) domainagg.RecipeAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.TagValidator == nil && deps.Tags != nil {
		deps.TagValidator = NewTagValidator(deps.Tags)
	}
	if deps.Graph == nil && deps.Relations != nil {
		deps.Graph = NewRelationGraphGuard(deps.Recipes, NewRepoGraphLoader(deps.Relations), BFSReachability{})
	}
	if deps.URLs == nil {
		deps.URLs = urlsanitize.Default
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &recipeAggregate{deps: deps}
}

func (a *recipeAggregate) Contract() domainagg.Contract {
	return domainagg.RecipeAggregateContract
}

func (a *recipeAggregate) configured() bool {
	d := a.deps
	return d.Users != nil && d.Recipes != nil && d.Ingredients != nil && d.Steps != nil &&
		d.SourceInfos != nil && d.RecipeTags != nil && d.Relations != nil && d.Versions != nil &&
		d.TagValidator != nil && d.Graph != nil
}

func (a *recipeAggregate) CreateRecipe(ctx context.Context, in domainagg.CreateRecipeInput) (domainagg.RecipeWriteResult, error) {
	const op = "Recipes.Recipe.Create"
	var out domainagg.RecipeWriteResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeUnauthenticated, op, msgUnauthenticated, nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "recipe aggregate repos not configured", nil)
	}
	draft, err := normalizeRecipeInput(in.Input, a.deps.URLs)
	if err != nil {
		return out, MapError(op, err)
	}

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.lockOwner(dbc, in.UserID); err != nil {
			return err
		}
		recipeID := uuid.New()
		tagIDs, err := a.checkInvariants(dbc, in.UserID, recipeID, draft)
		if err != nil {
			return err
		}

		now := a.deps.Now().UTC()
		if _, err := a.deps.Recipes.Create(dbc, []*types.Recipe{{
			ID:        recipeID,
			UserID:    in.UserID,
			Title:     draft.Title,
			Memo:      draft.Memo,
			CreatedAt: now,
			UpdatedAt: now,
		}}); err != nil {
			return err
		}
		version, err := a.writeOwnedRows(dbc, recipeID, draft, tagIDs)
		if err != nil {
			return err
		}
		out = domainagg.RecipeWriteResult{RecipeID: recipeID, Version: version}
		return nil
	})
	if err != nil {
		return domainagg.RecipeWriteResult{}, err
	}
	return out, nil
}

func (a *recipeAggregate) UpdateRecipe(ctx context.Context, in domainagg.UpdateRecipeInput) (domainagg.RecipeWriteResult, error) {
	const op = "Recipes.Recipe.Update"
	var out domainagg.RecipeWriteResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeUnauthenticated, op, msgUnauthenticated, nil)
	}
	if in.RecipeID == uuid.Nil {
		return out, MapError(op, NotFoundError(msgRecipeNotFound))
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "recipe aggregate repos not configured", nil)
	}

	// Ownership is settled before the body is judged, so a foreign caller
	// always sees not-found whatever they sent.
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.lockOwner(dbc, in.UserID); err != nil {
			return err
		}
		rec, err := a.deps.Recipes.LockOwnedByID(dbc, in.UserID, in.RecipeID)
		if err != nil {
			return err
		}
		if err := RequireFound(rec != nil, msgRecipeNotFound); err != nil {
			return err
		}
		draft, err := normalizeRecipeInput(in.Input, a.deps.URLs)
		if err != nil {
			return err
		}
		tagIDs, err := a.checkInvariants(dbc, in.UserID, rec.ID, draft)
		if err != nil {
			return err
		}

		if err := a.deps.Recipes.UpdateFields(dbc, rec.ID, map[string]interface{}{
			"title":      draft.Title,
			"memo":       draft.Memo,
			"updated_at": a.deps.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := a.clearOwnedRows(dbc, rec.ID); err != nil {
			return err
		}
		version, err := a.writeOwnedRows(dbc, rec.ID, draft, tagIDs)
		if err != nil {
			return err
		}
		out = domainagg.RecipeWriteResult{RecipeID: rec.ID, Version: version}
		return nil
	})
	if err != nil {
		return domainagg.RecipeWriteResult{}, err
	}
	return out, nil
}

func (a *recipeAggregate) DeleteRecipe(ctx context.Context, in domainagg.DeleteRecipeInput) (domainagg.RecipeDeleteResult, error) {
	const op = "Recipes.Recipe.Delete"
	var out domainagg.RecipeDeleteResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeUnauthenticated, op, msgUnauthenticated, nil)
	}
	if in.RecipeID == uuid.Nil {
		return out, MapError(op, NotFoundError(msgRecipeNotFound))
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "recipe aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.lockOwner(dbc, in.UserID); err != nil {
			return err
		}
		rec, err := a.deps.Recipes.LockOwnedByID(dbc, in.UserID, in.RecipeID)
		if err != nil {
			return err
		}
		if err := RequireFound(rec != nil, msgRecipeNotFound); err != nil {
			return err
		}
		if err := a.clearOwnedRows(dbc, rec.ID); err != nil {
			return err
		}
		// Edges where this recipe is the child belong to other parents but must not dangle.
		if err := a.deps.Relations.DeleteByRecipeID(dbc, rec.ID); err != nil {
			return err
		}
		if err := a.deps.Versions.DeleteByRecipeID(dbc, rec.ID); err != nil {
			return err
		}
		if err := a.deps.Recipes.DeleteByID(dbc, rec.ID); err != nil {
			return err
		}
		out = domainagg.RecipeDeleteResult{RecipeID: rec.ID, Deleted: true}
		return nil
	})
	if err != nil {
		return domainagg.RecipeDeleteResult{}, err
	}
	return out, nil
}

// lockOwner takes the user row lock. Every write to one user's composition graph
// serializes here, so the checks below see the edges committed by earlier writers.
func (a *recipeAggregate) lockOwner(dbc dbctx.Context, userID uuid.UUID) error {
	u, err := a.deps.Users.LockByID(dbc, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domainagg.NewError(domainagg.CodeUnauthenticated, "Recipes.Recipe.LockOwner", msgUnauthenticated, nil)
	}
	return nil
}

// checkInvariants runs tag usability, child ownership and acyclicity for recipeID.
func (a *recipeAggregate) checkInvariants(dbc dbctx.Context, userID, recipeID uuid.UUID, draft recipeDraft) ([]uuid.UUID, error) {
	tags, err := a.deps.TagValidator.ValidateTagIDsForUser(dbc, draft.TagIDs, userID)
	if err != nil {
		return nil, err
	}
	if err := RequireValid(tags.IsValid, msgInvalidTags); err != nil {
		return nil, err
	}

	childIDs := draft.childIDs()
	if len(childIDs) == 0 {
		return tags.ValidTagIDs, nil
	}
	owned, err := a.deps.Graph.ValidateChildRecipeOwnership(dbc, userID, childIDs)
	if err != nil {
		return nil, err
	}
	if err := RequireValid(owned, msgInvalidChildren); err != nil {
		return nil, err
	}
	cyclic, err := a.deps.Graph.CheckCircularReferences(dbc, userID, recipeID, childIDs)
	if err != nil {
		return nil, err
	}
	if err := RequireValid(len(cyclic) == 0, msgCycleDetected); err != nil {
		return nil, err
	}
	return tags.ValidTagIDs, nil
}

// clearOwnedRows removes every row the recipe owns except versions and incoming edges.
func (a *recipeAggregate) clearOwnedRows(dbc dbctx.Context, recipeID uuid.UUID) error {
	if err := a.deps.RecipeTags.DeleteByRecipeID(dbc, recipeID); err != nil {
		return err
	}
	if err := a.deps.Ingredients.DeleteByRecipeID(dbc, recipeID); err != nil {
		return err
	}
	if err := a.deps.Steps.DeleteByRecipeID(dbc, recipeID); err != nil {
		return err
	}
	if err := a.deps.SourceInfos.DeleteByRecipeID(dbc, recipeID); err != nil {
		return err
	}
	return a.deps.Relations.DeleteByParentID(dbc, recipeID)
}

// writeOwnedRows inserts the draft's collections under recipeID and appends a version.
func (a *recipeAggregate) writeOwnedRows(dbc dbctx.Context, recipeID uuid.UUID, draft recipeDraft, tagIDs []uuid.UUID) (int, error) {
	var w writtenRows

	ingredients := make([]*types.Ingredient, 0, len(draft.Ingredients))
	for _, ing := range draft.Ingredients {
		row := ing
		row.RecipeID = recipeID
		ingredients = append(ingredients, &row)
	}
	created, err := a.deps.Ingredients.Create(dbc, ingredients)
	if err != nil {
		return 0, err
	}
	w.Ingredients = created

	steps := make([]*types.Step, 0, len(draft.Steps))
	for _, s := range draft.Steps {
		row := s
		row.RecipeID = recipeID
		steps = append(steps, &row)
	}
	createdSteps, err := a.deps.Steps.Create(dbc, steps)
	if err != nil {
		return 0, err
	}
	w.Steps = createdSteps

	if draft.Source != nil {
		src := *draft.Source
		src.RecipeID = recipeID
		createdSrc, err := a.deps.SourceInfos.Create(dbc, &src)
		if err != nil {
			return 0, err
		}
		w.Source = createdSrc
	}

	links := make([]*types.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, &types.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	if _, err := a.deps.RecipeTags.Create(dbc, links); err != nil {
		return 0, err
	}
	w.TagIDs = tagIDs

	edges := make([]*types.RecipeRelation, 0, len(draft.Children))
	for _, c := range draft.Children {
		edges = append(edges, &types.RecipeRelation{
			ParentRecipeID: recipeID,
			ChildRecipeID:  c.ChildRecipeID,
			Quantity:       c.Quantity,
			Notes:          c.Notes,
		})
	}
	createdEdges, err := a.deps.Relations.Create(dbc, edges)
	if err != nil {
		return 0, err
	}
	w.Relations = createdEdges

	snapshot, err := buildSnapshot(draft, w)
	if err != nil {
		return 0, err
	}
	v, err := a.deps.Versions.Append(dbc, recipeID, snapshot)
	if err != nil {
		return 0, err
	}
	if v == nil || v.Version < 1 {
		return 0, InvariantError("recipe version was not recorded")
	}
	return v.Version, nil
}
