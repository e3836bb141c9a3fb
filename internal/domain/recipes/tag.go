package recipes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagOwnerKind string

const (
	TagOwnedBySystem TagOwnerKind = "system"
	TagOwnedByUser   TagOwnerKind = "user"
)

// TagOwnership is the explicit variant behind the is_system/owner_user_id columns.
type TagOwnership struct {
	Kind   TagOwnerKind
	UserID uuid.UUID
}

func SystemOwnership() TagOwnership { return TagOwnership{Kind: TagOwnedBySystem} }

func OwnedBy(userID uuid.UUID) TagOwnership {
	return TagOwnership{Kind: TagOwnedByUser, UserID: userID}
}

// UsableBy reports whether userID may attach a tag with this ownership.
func (o TagOwnership) UsableBy(userID uuid.UUID) bool {
	switch o.Kind {
	case TagOwnedBySystem:
		return true
	case TagOwnedByUser:
		return userID != uuid.Nil && o.UserID == userID
	default:
		return false
	}
}

type Tag struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	IsSystem    bool       `gorm:"column:is_system;not null;default:false;index" json:"is_system"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;column:owner_user_id;index" json:"owner_user_id,omitempty"`
}

func (Tag) TableName() string { return "tag" }

func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t Tag) Ownership() TagOwnership {
	if t.IsSystem || t.OwnerUserID == nil {
		return SystemOwnership()
	}
	return OwnedBy(*t.OwnerUserID)
}

// SetOwnership writes o back onto the storage columns.
func (t *Tag) SetOwnership(o TagOwnership) {
	if o.Kind == TagOwnedByUser {
		id := o.UserID
		t.IsSystem = false
		t.OwnerUserID = &id
		return
	}
	t.IsSystem = true
	t.OwnerUserID = nil
}

// RecipeTag links a recipe to a tag. The link belongs to the recipe aggregate; the tag does not.
type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"tag_id"`
}

func (RecipeTag) TableName() string { return "recipe_tag" }
