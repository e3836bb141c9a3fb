package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByAuthID(dbc dbctx.Context, authID string) (*types.User, error)
	// LockByID takes a row lock on the user. Writers of one user's recipe graph serialize on it.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return ur.first(dbc, false, "id = ?", id)
}

func (ur *userRepo) GetByAuthID(dbc dbctx.Context, authID string) (*types.User, error) {
	authID = strings.TrimSpace(authID)
	if authID == "" {
		return nil, nil
	}
	return ur.first(dbc, false, "auth_id = ?", authID)
}

func (ur *userRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return ur.first(dbc, true, "id = ?", id)
}

// first returns the single matching user, or nil when there is none.
// With lock set it holds FOR UPDATE until dbc.Tx ends.
func (ur *userRepo) first(dbc dbctx.Context, lock bool, cond string, arg interface{}) (*types.User, error) {
	q := dbc.Tx
	if q == nil {
		q = ur.db
	}
	q = q.WithContext(dbc.Ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.User
	if err := q.Where(cond, arg).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
