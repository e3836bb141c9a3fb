package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type IngredientRepo interface {
	Create(dbc dbctx.Context, rows []*types.Ingredient) ([]*types.Ingredient, error)
	GetByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) ([]*types.Ingredient, error)
	DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error
	CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return &ingredientRepo{db: db, log: baseLog.With("repo", "IngredientRepo")}
}

func (r *ingredientRepo) Create(dbc dbctx.Context, rows []*types.Ingredient) ([]*types.Ingredient, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Ingredient{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ingredientRepo) GetByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) ([]*types.Ingredient, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Ingredient
	if recipeID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("recipe_id = ?", recipeID).
		Order("order_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientRepo) DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error {
	if recipeID == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("recipe_id = ?", recipeID).Delete(&types.Ingredient{}).Error
}

func (r *ingredientRepo) CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(dbc.Ctx).Model(&types.Ingredient{}).Where("recipe_id = ?", recipeID).Count(&n).Error
	return n, err
}
