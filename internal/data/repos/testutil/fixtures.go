package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/domain/recipes"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.User {
	tb.Helper()
	id := uuid.New()
	u := &types.User{
		ID:     id,
		AuthID: "auth|" + id.String(),
		Email:  id.String() + "@example.com",
		Name:   "cook",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSystemTag(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Tag {
	tb.Helper()
	tag := &types.Tag{ID: uuid.New(), Name: name}
	tag.SetOwnership(recipes.SystemOwnership())
	if err := tx.WithContext(ctx).Create(tag).Error; err != nil {
		tb.Fatalf("seed system tag: %v", err)
	}
	return tag
}

func SeedUserTag(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.Tag {
	tb.Helper()
	tag := &types.Tag{ID: uuid.New(), Name: name}
	tag.SetOwnership(recipes.OwnedBy(userID))
	if err := tx.WithContext(ctx).Create(tag).Error; err != nil {
		tb.Fatalf("seed user tag: %v", err)
	}
	return tag
}

func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) *types.Recipe {
	tb.Helper()
	r := &types.Recipe{ID: uuid.New(), UserID: userID, Title: title}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	return r
}

func SeedRelation(tb testing.TB, ctx context.Context, tx *gorm.DB, parentID, childID uuid.UUID) *types.RecipeRelation {
	tb.Helper()
	rel := &types.RecipeRelation{ID: uuid.New(), ParentRecipeID: parentID, ChildRecipeID: childID}
	if err := tx.WithContext(ctx).Create(rel).Error; err != nil {
		tb.Fatalf("seed relation: %v", err)
	}
	return rel
}

func SeedRecipeTag(tb testing.TB, ctx context.Context, tx *gorm.DB, recipeID, tagID uuid.UUID) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(&types.RecipeTag{RecipeID: recipeID, TagID: tagID}).Error; err != nil {
		tb.Fatalf("seed recipe tag: %v", err)
	}
}
