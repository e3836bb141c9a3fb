package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type StepRepo interface {
	Create(dbc dbctx.Context, rows []*types.Step) ([]*types.Step, error)
	GetByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) ([]*types.Step, error)
	DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error
	CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error)
}

type stepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepRepo(db *gorm.DB, baseLog *logger.Logger) StepRepo {
	return &stepRepo{db: db, log: baseLog.With("repo", "StepRepo")}
}

func (r *stepRepo) Create(dbc dbctx.Context, rows []*types.Step) ([]*types.Step, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Step{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *stepRepo) GetByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) ([]*types.Step, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Step
	if recipeID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("recipe_id = ?", recipeID).
		Order("step_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stepRepo) DeleteByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) error {
	if recipeID == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("recipe_id = ?", recipeID).Delete(&types.Step{}).Error
}

func (r *stepRepo) CountByRecipeID(dbc dbctx.Context, recipeID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(dbc.Ctx).Model(&types.Step{}).Where("recipe_id = ?", recipeID).Count(&n).Error
	return n, err
}
