package aggregates

import (
	"context"

	"github.com/google/uuid"
)

var RecipeAggregateContract = Contract{
	Name:             "Recipes.RecipeAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Tables:           []string{"recipe", "recipe_ingredient", "recipe_step", "recipe_source_info", "recipe_tag", "recipe_relation", "recipe_version"},
	Guards:           []string{"input_shape", "tag_usable", "child_owned", "child_unique", "composition_acyclic"},
}

// RecipeAggregate owns the recipe write boundary.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type RecipeAggregate interface {
	Aggregate

	// CreateRecipe inserts the recipe and all of its owned rows, or nothing.
	CreateRecipe(ctx context.Context, in CreateRecipeInput) (RecipeWriteResult, error)

	// UpdateRecipe replaces every owned collection with the submitted one. Callers send the full desired state.
	UpdateRecipe(ctx context.Context, in UpdateRecipeInput) (RecipeWriteResult, error)

	// DeleteRecipe removes the recipe, its owned rows, and every relation that points at it.
	DeleteRecipe(ctx context.Context, in DeleteRecipeInput) (RecipeDeleteResult, error)
}

// RecipeInput is the write payload shared by the manual form and the OCR extraction pipeline.
type RecipeInput struct {
	Title        string             `json:"title"`
	SourceInfo   *SourceInfoInput   `json:"sourceInfo,omitempty"`
	Ingredients  []IngredientInput  `json:"ingredients"`
	Steps        []StepInput        `json:"steps"`
	Memo         *string            `json:"memo,omitempty"`
	Tags         []string           `json:"tags"`
	ChildRecipes []ChildRecipeInput `json:"childRecipes,omitempty"`
}

type SourceInfoInput struct {
	BookName   *string `json:"bookName,omitempty"`
	PageNumber *string `json:"pageNumber,omitempty"`
	URL        *string `json:"url,omitempty"`
}

type IngredientInput struct {
	Name  string  `json:"name"`
	Unit  *string `json:"unit,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// StepInput accepts either orderIndex (0-based, form) or stepNumber (1-based, OCR) for ordering.
type StepInput struct {
	OrderIndex   *int   `json:"orderIndex,omitempty"`
	StepNumber   *int   `json:"stepNumber,omitempty"`
	Instruction  string `json:"instruction"`
	TimerSeconds *int   `json:"timerSeconds,omitempty"`
}

type ChildRecipeInput struct {
	ChildRecipeID string  `json:"childRecipeId"`
	Quantity      *string `json:"quantity,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type CreateRecipeInput struct {
	UserID uuid.UUID
	Input  RecipeInput
}

type UpdateRecipeInput struct {
	UserID   uuid.UUID
	RecipeID uuid.UUID
	Input    RecipeInput
}

type DeleteRecipeInput struct {
	UserID   uuid.UUID
	RecipeID uuid.UUID
}

type RecipeWriteResult struct {
	RecipeID uuid.UUID `json:"recipeId"`
	Version  int       `json:"version"`
}

type RecipeDeleteResult struct {
	RecipeID uuid.UUID
	Deleted  bool
}
