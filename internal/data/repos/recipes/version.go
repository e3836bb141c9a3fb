package recipes

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type RecipeVersionRepo interface {
	// Append stores snapshot as the next version of the recipe. Callers hold the recipe's write lock.
	Append(dbc dbctx.Context, recipeID uuid.UUID, snapshot datatypes.JSON) (*types.RecipeVersion, error)
	GetLatest(dbc dbctx.Context, recipeID uuid.UUID) (*types.RecipeVersion, error)
	DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error
	CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error)
}

type recipeVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeVersionRepo(db *gorm.DB, baseLog *logger.Logger) RecipeVersionRepo {
	return &recipeVersionRepo{db: db, log: baseLog.With("repo", "RecipeVersionRepo")}
}

func (r *recipeVersionRepo) Append(dbc dbctx.Context, recipeID uuid.UUID, snapshot datatypes.JSON) (*types.RecipeVersion, error) {
	if recipeID == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var current int
	if err := t.WithContext(dbc.Ctx).
		Model(&types.RecipeVersion{}).
		Where("recipe_id = ?", recipeID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&current).Error; err != nil {
		return nil, err
	}
	if len(snapshot) == 0 {
		snapshot = datatypes.JSON([]byte("{}"))
	}
	row := &types.RecipeVersion{
		RecipeID: recipeID,
		Version:  current + 1,
		Snapshot: snapshot,
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *recipeVersionRepo) GetLatest(dbc dbctx.Context, recipeID uuid.UUID) (*types.RecipeVersion, error) {
	if recipeID == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.RecipeVersion
	if err := t.WithContext(dbc.Ctx).
		Where("recipe_id = ?", recipeID).
		Order("version DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *recipeVersionRepo) DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error {
	if recipeID == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("recipe_id = ?", recipeID).Delete(&types.RecipeVersion{}).Error
}

func (r *recipeVersionRepo) CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(dbc.Ctx).Model(&types.RecipeVersion{}).Where("recipe_id = ?", recipeID).Count(&n).Error
	return n, err
}
