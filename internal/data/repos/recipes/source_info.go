package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type SourceInfoRepo interface {
	Create(dbc dbctx.Context, row *types.SourceInfo) (*types.SourceInfo, error)
	GetByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (*types.SourceInfo, error)
	DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error
}

type sourceInfoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourceInfoRepo(db *gorm.DB, baseLog *logger.Logger) SourceInfoRepo {
	return &sourceInfoRepo{db: db, log: baseLog.With("repo", "SourceInfoRepo")}
}

func (r *sourceInfoRepo) Create(dbc dbctx.Context, row *types.SourceInfo) (*types.SourceInfo, error) {
	if row == nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *sourceInfoRepo) GetByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (*types.SourceInfo, error) {
	if recipeID == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.SourceInfo
	if err := t.WithContext(dbc.Ctx).Where("recipe_id = ?", recipeID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *sourceInfoRepo) DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error {
	if recipeID == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("recipe_id = ?", recipeID).Delete(&types.SourceInfo{}).Error
}
