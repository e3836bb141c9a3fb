package recipes

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

// ListFilter narrows a user's recipe listing. Tag filters are ANDed.
type ListFilter struct {
	Query  string
	TagIDs []uuid.UUID
	Limit  int
}

type RecipeRepo interface {
	Create(dbc dbctx.Context, rows []*types.Recipe) ([]*types.Recipe, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Recipe, error)
	GetOwnedByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.Recipe, error)
	LockOwnedByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.Recipe, error)

	ExistsOwned(dbc dbctx.Context, userID, id uuid.UUID) (bool, error)
	CountOwned(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, filter ListFilter) ([]*types.Recipe, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

func (r *recipeRepo) Create(dbc dbctx.Context, rows []*types.Recipe) ([]*types.Recipe, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Recipe{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Recipe, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Recipe
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetOwnedByID returns nil when the recipe is missing or belongs to someone else.
func (r *recipeRepo) GetOwnedByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.Recipe, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Recipe
	if err := t.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *recipeRepo) LockOwnedByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.Recipe, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Recipe
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *recipeRepo) ExistsOwned(dbc dbctx.Context, userID, id uuid.UUID) (bool, error) {
	n, err := r.CountOwned(dbc, userID, []uuid.UUID{id})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CountOwned counts how many of the distinct ids name recipes owned by userID.
func (r *recipeRepo) CountOwned(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	ids = uniqueIDs(ids)
	if userID == uuid.Nil || len(ids) == 0 {
		return 0, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Recipe{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, filter ListFilter) ([]*types.Recipe, error) {
	var out []*types.Recipe
	if userID == uuid.Nil {
		return out, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Recipe{}).Where("user_id = ?", userID)

	if query := strings.TrimSpace(filter.Query); query != "" {
		pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(memo, '')) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if tagIDs := uniqueIDs(filter.TagIDs); len(tagIDs) > 0 {
		sub := t.WithContext(dbc.Ctx).
			Model(&types.RecipeTag{}).
			Select("recipe_id").
			Where("tag_id IN ?", tagIDs).
			Group("recipe_id").
			Having("COUNT(DISTINCT tag_id) = ?", len(tagIDs))
		q = q.Where("id IN (?)", sub)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Order("updated_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Recipe{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *recipeRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.Recipe{}).Error
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
