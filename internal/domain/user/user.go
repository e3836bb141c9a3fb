package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns recipes and user-scoped tags. AuthID is the external identity.
type User struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthID string    `gorm:"column:auth_id;uniqueIndex;not null" json:"auth_id"`
	Email  string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Name   string    `gorm:"column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
