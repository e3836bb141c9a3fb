package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type RecipeRelationRepo interface {
	Create(dbc dbctx.Context, rows []*types.RecipeRelation) ([]*types.RecipeRelation, error)
	GetByParentID(dbc dbctx.Context, parentID uuid.UUID) ([]*types.RecipeRelation, error)

	// ListEdgesForUser returns every edge whose parent recipe is owned by userID.
	ListEdgesForUser(dbc dbctx.Context, userID uuid.UUID) ([]types.RecipeEdge, error)
	ListEdgesFromParents(dbc dbctx.Context, parentIDs []uuid.UUID) ([]types.RecipeEdge, error)

	DeleteByParentID(dbc dbctx.Context, parentID uuid.UUID) error
	// DeleteByRecipeID removes edges where the recipe is either parent or child.
	DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error
	CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error)
}

type recipeRelationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRelationRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRelationRepo {
	return &recipeRelationRepo{db: db, log: baseLog.With("repo", "RecipeRelationRepo")}
}

func (r *recipeRelationRepo) Create(dbc dbctx.Context, rows []*types.RecipeRelation) ([]*types.RecipeRelation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.RecipeRelation{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeRelationRepo) GetByParentID(dbc dbctx.Context, parentID uuid.UUID) ([]*types.RecipeRelation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.RecipeRelation
	if parentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("parent_recipe_id = ?", parentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRelationRepo) ListEdgesForUser(dbc dbctx.Context, userID uuid.UUID) ([]types.RecipeEdge, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []types.RecipeEdge
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Table("recipe_relation AS rr").
		Select("rr.parent_recipe_id, rr.child_recipe_id").
		Joins("JOIN recipe AS r ON r.id = rr.parent_recipe_id").
		Where("r.user_id = ?", userID).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRelationRepo) ListEdgesFromParents(dbc dbctx.Context, parentIDs []uuid.UUID) ([]types.RecipeEdge, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []types.RecipeEdge
	parentIDs = uniqueIDs(parentIDs)
	if len(parentIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.RecipeRelation{}).
		Select("parent_recipe_id, child_recipe_id").
		Where("parent_recipe_id IN ?", parentIDs).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRelationRepo) DeleteByParentID(dbc dbctx.Context, parentID uuid.UUID) error {
	if parentID == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("parent_recipe_id = ?", parentID).
		Delete(&types.RecipeRelation{}).Error
}

func (r *recipeRelationRepo) DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error {
	if recipeID == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("parent_recipe_id = ? OR child_recipe_id = ?", recipeID, recipeID).
		Delete(&types.RecipeRelation{}).Error
}

func (r *recipeRelationRepo) CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(dbc.Ctx).
		Model(&types.RecipeRelation{}).
		Where("parent_recipe_id = ? OR child_recipe_id = ?", recipeID, recipeID).
		Count(&n).Error
	return n, err
}
