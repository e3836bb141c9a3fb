package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	types "github.com/yungbote/recipebook-backend/internal/domain"
	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

const (
	msgServerError     = "サーバーエラーが発生しました"
	msgUnauthenticated = "ログインが必要です"

	publishTimeout = 3 * time.Second
)

// RecipeQuery filters a recipe listing. Tag ids are ANDed.
type RecipeQuery struct {
	Query  string
	TagIDs []string
	Limit  int
}

// RevalidationPublisher announces committed recipe changes to read views.
type RevalidationPublisher interface {
	Publish(ctx context.Context, evt types.RecipeChangedEvent) error
}

type RecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, in domainagg.RecipeInput) (domainagg.RecipeWriteResult, error)
	UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, in domainagg.RecipeInput) (domainagg.RecipeWriteResult, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error

	GetRecipeByID(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeDetail, error)
	GetRecipes(ctx context.Context, userID uuid.UUID, q RecipeQuery) ([]types.RecipeListItem, error)
	ListTags(ctx context.Context, userID uuid.UUID) ([]*types.Tag, error)
}

type recipeService struct {
	db        *gorm.DB
	log       *logger.Logger
	agg       domainagg.RecipeAggregate
	repos     repos.RecipeRepos
	publisher RevalidationPublisher
	now       func() time.Time
}

func NewRecipeService(db *gorm.DB, baseLog *logger.Logger, agg domainagg.RecipeAggregate, r repos.RecipeRepos, publisher RevalidationPublisher) RecipeService {
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	return &recipeService{
		db:        db,
		log:       baseLog.With("service", "RecipeService"),
		agg:       agg,
		repos:     r,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, in domainagg.RecipeInput) (domainagg.RecipeWriteResult, error) {
	const op = "RecipeService.CreateRecipe"
	userID, err := s.resolveUser(ctx, op, userID)
	if err != nil {
		return domainagg.RecipeWriteResult{}, err
	}
	res, err := s.agg.CreateRecipe(ctx, domainagg.CreateRecipeInput{UserID: userID, Input: in})
	if err != nil {
		return domainagg.RecipeWriteResult{}, s.boundaryError(op, err, "user_id", userID)
	}
	s.publish(ctx, types.RecipeCreated, userID, res.RecipeID, res.Version)
	return res, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, in domainagg.RecipeInput) (domainagg.RecipeWriteResult, error) {
	const op = "RecipeService.UpdateRecipe"
	userID, err := s.resolveUser(ctx, op, userID)
	if err != nil {
		return domainagg.RecipeWriteResult{}, err
	}
	res, err := s.agg.UpdateRecipe(ctx, domainagg.UpdateRecipeInput{UserID: userID, RecipeID: recipeID, Input: in})
	if err != nil {
		return domainagg.RecipeWriteResult{}, s.boundaryError(op, err, "user_id", userID, "recipe_id", recipeID)
	}
	s.publish(ctx, types.RecipeUpdated, userID, res.RecipeID, res.Version)
	return res, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	const op = "RecipeService.DeleteRecipe"
	userID, err := s.resolveUser(ctx, op, userID)
	if err != nil {
		return err
	}
	res, err := s.agg.DeleteRecipe(ctx, domainagg.DeleteRecipeInput{UserID: userID, RecipeID: recipeID})
	if err != nil {
		return s.boundaryError(op, err, "user_id", userID, "recipe_id", recipeID)
	}
	s.publish(ctx, types.RecipeDeleted, userID, res.RecipeID, 0)
	return nil
}

// GetRecipeByID returns nil, nil when the recipe is missing or owned by someone else.
func (s *recipeService) GetRecipeByID(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeDetail, error) {
	const op = "RecipeService.GetRecipeByID"
	userID, err := s.resolveUser(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	if recipeID == uuid.Nil {
		return nil, nil
	}
	var detail *types.RecipeDetail
	err = s.inReadTx(ctx, func(dbc dbctx.Context) error {
		var err error
		detail, err = s.loadDetail(dbc, userID, recipeID)
		return err
	})
	if err != nil {
		return nil, s.boundaryError(op, err, "user_id", userID, "recipe_id", recipeID)
	}
	return detail, nil
}

// inReadTx reads the aggregate's tables from one snapshot.
func (s *recipeService) inReadTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if s.db == nil {
		return fn(dbctx.Context{Ctx: ctx})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func (s *recipeService) loadDetail(dbc dbctx.Context, userID, recipeID uuid.UUID) (*types.RecipeDetail, error) {
	rec, err := s.repos.Recipes.GetOwnedByID(dbc, userID, recipeID)
	if err != nil || rec == nil {
		return nil, err
	}
	out := &types.RecipeDetail{Recipe: *rec}

	ings, err := s.repos.Ingredients.GetByRecipeID(dbc, rec.ID)
	if err != nil {
		return nil, err
	}
	for _, ing := range ings {
		out.Ingredients = append(out.Ingredients, *ing)
	}
	steps, err := s.repos.Steps.GetByRecipeID(dbc, rec.ID)
	if err != nil {
		return nil, err
	}
	for _, st := range steps {
		out.Steps = append(out.Steps, *st)
	}
	if out.SourceInfo, err = s.repos.SourceInfos.GetByRecipeID(dbc, rec.ID); err != nil {
		return nil, err
	}
	tags, err := s.tagsByRecipe(dbc, []uuid.UUID{rec.ID})
	if err != nil {
		return nil, err
	}
	out.Tags = tags[rec.ID]
	children, err := s.repos.Relations.GetByParentID(dbc, rec.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		out.Children = append(out.Children, *c)
	}
	return out, nil
}

// GetRecipes lists the caller's recipes. A tag filter that cannot name any
// tag matches nothing, so unparsable tag ids yield an empty list.
func (s *recipeService) GetRecipes(ctx context.Context, userID uuid.UUID, q RecipeQuery) ([]types.RecipeListItem, error) {
	const op = "RecipeService.GetRecipes"
	userID, err := s.resolveUser(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	filter := repos.RecipeListFilter{Query: strings.TrimSpace(q.Query), Limit: q.Limit}
	for _, raw := range q.TagIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return []types.RecipeListItem{}, nil
		}
		filter.TagIDs = append(filter.TagIDs, id)
	}

	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.repos.Recipes.ListByUser(dbc, userID, filter)
	if err != nil {
		return nil, s.boundaryError(op, err, "user_id", userID)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	tags, err := s.tagsByRecipe(dbc, ids)
	if err != nil {
		return nil, s.boundaryError(op, err, "user_id", userID)
	}
	out := make([]types.RecipeListItem, 0, len(rows))
	for _, r := range rows {
		item := types.RecipeListItem{ID: r.ID, Title: r.Title, Tags: tags[r.ID], UpdatedAt: r.UpdatedAt}
		if item.Tags == nil {
			item.Tags = []types.Tag{}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *recipeService) ListTags(ctx context.Context, userID uuid.UUID) ([]*types.Tag, error) {
	const op = "RecipeService.ListTags"
	userID, err := s.resolveUser(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	tags, err := s.repos.Tags.ListUsable(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, s.boundaryError(op, err, "user_id", userID)
	}
	return tags, nil
}

func (s *recipeService) tagsByRecipe(dbc dbctx.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]types.Tag, error) {
	out := map[uuid.UUID][]types.Tag{}
	if len(recipeIDs) == 0 {
		return out, nil
	}
	links, err := s.repos.RecipeTags.GetByRecipeIDs(dbc, recipeIDs)
	if err != nil || len(links) == 0 {
		return out, err
	}
	tagIDs := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		tagIDs = append(tagIDs, l.TagID)
	}
	rows, err := s.repos.Tags.GetByIDs(dbc, tagIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]types.Tag, len(rows))
	for _, t := range rows {
		byID[t.ID] = *t
	}
	for _, l := range links {
		if t, ok := byID[l.TagID]; ok {
			out[l.RecipeID] = append(out[l.RecipeID], t)
		}
	}
	return out, nil
}

func (s *recipeService) resolveUser(ctx context.Context, op string, userID uuid.UUID) (uuid.UUID, error) {
	if userID == uuid.Nil {
		userID = ctxutil.UserID(ctx)
	}
	if userID == uuid.Nil {
		return uuid.Nil, domainagg.NewError(domainagg.CodeUnauthenticated, op, msgUnauthenticated, nil)
	}
	return userID, nil
}

// boundaryError keeps caller-facing codes and hides store failures behind a
// generic message. Conflict and invariant codes come from the store or a
// broken post-write check, so their text never reaches the caller.
func (s *recipeService) boundaryError(op string, err error, kv ...interface{}) error {
	code := domainagg.CodeOf(err)
	switch code {
	case domainagg.CodeValidation, domainagg.CodeNotFound, domainagg.CodeUnauthenticated,
		domainagg.CodeForbidden:
		return err
	case domainagg.CodeRetryable:
		s.log.Warn("recipe write retryable failure", append([]interface{}{"op", op, "error", err}, kv...)...)
		return domainagg.NewError(domainagg.CodeRetryable, op, msgServerError, err)
	}
	s.log.Error("recipe operation failed", append([]interface{}{"op", op, "error", err}, kv...)...)
	return domainagg.NewError(domainagg.CodeInternal, op, msgServerError, nil)
}

// publish runs after commit; a failure is logged and never fails the write.
func (s *recipeService) publish(ctx context.Context, action types.RecipeChangeAction, userID, recipeID uuid.UUID, version int) {
	if s.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	evt := types.RecipeChangedEvent{
		Action:     action,
		UserID:     userID,
		RecipeID:   recipeID,
		Version:    version,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(pctx, evt); err != nil {
		s.log.Warn("revalidation publish failed", "action", action, "recipe_id", recipeID, "error", err)
		observability.Current().IncRevalidation(string(action), "error")
		return
	}
	observability.Current().IncRevalidation(string(action), "ok")
}
