package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type TagRepo interface {
	Create(dbc dbctx.Context, rows []*types.Tag) ([]*types.Tag, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Tag, error)
	// GetUsableByIDs returns the subset of ids that are system tags or tags owned by userID.
	GetUsableByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.Tag, error)
	ListUsable(dbc dbctx.Context, userID uuid.UUID) ([]*types.Tag, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) Create(dbc dbctx.Context, rows []*types.Tag) ([]*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Tag{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tagRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) GetUsableByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if len(ids) == 0 {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).Where("id IN ?", ids)
	if err := usableClause(q, userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) ListUsable(dbc dbctx.Context, userID uuid.UUID) ([]*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if err := usableClause(t.WithContext(dbc.Ctx), userID).
		Order("is_system DESC").
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// A nil userID matches system tags only.
func usableClause(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	if userID == uuid.Nil {
		return db.Where("is_system = ?", true)
	}
	return db.Where("(is_system = ? OR owner_user_id = ?)", true, userID)
}
