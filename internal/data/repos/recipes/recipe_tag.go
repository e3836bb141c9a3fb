package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type RecipeTagRepo interface {
	// Create ignores links that already exist.
	Create(dbc dbctx.Context, rows []*types.RecipeTag) ([]*types.RecipeTag, error)
	GetByRecipeIDs(dbc dbctx.Context, recipeIDs []uuid.UUID) ([]*types.RecipeTag, error)
	DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error
	CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error)
}

type recipeTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeTagRepo(db *gorm.DB, baseLog *logger.Logger) RecipeTagRepo {
	return &recipeTagRepo{db: db, log: baseLog.With("repo", "RecipeTagRepo")}
}

func (r *recipeTagRepo) Create(dbc dbctx.Context, rows []*types.RecipeTag) ([]*types.RecipeTag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.RecipeTag{}, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeTagRepo) GetByRecipeIDs(dbc dbctx.Context, recipeIDs []uuid.UUID) ([]*types.RecipeTag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.RecipeTag
	if len(recipeIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("recipe_id IN ?", recipeIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeTagRepo) DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error {
	if recipeID == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("recipe_id = ?", recipeID).Delete(&types.RecipeTag{}).Error
}

func (r *recipeTagRepo) CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(dbc.Ctx).Model(&types.RecipeTag{}).Where("recipe_id = ?", recipeID).Count(&n).Error
	return n, err
}
