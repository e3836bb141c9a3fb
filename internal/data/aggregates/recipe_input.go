package aggregates

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/recipebook-backend/internal/domain"
	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	"github.com/yungbote/recipebook-backend/internal/domain/recipes"
	"github.com/yungbote/recipebook-backend/internal/pkg/urlsanitize"
)

const (
	msgTitleRequired      = "タイトルは必須です"
	msgTitleTooLong       = "タイトルは255文字以内で入力してください"
	msgIngredientRequired = "材料名は必須です"
	msgStepRequired       = "手順の内容は必須です"
	msgTimerNegative      = "タイマーは0秒以上で入力してください"
)

// recipeDraft is a RecipeInput after shape validation, ready to be written.
type recipeDraft struct {
	Title       string
	Memo        string
	Ingredients []types.Ingredient
	Steps       []types.Step
	Source      *types.SourceInfo
	TagIDs      []string
	Children    []childDraft
}

type childDraft struct {
	ChildRecipeID uuid.UUID
	Quantity      *string
	Notes         *string
}

func (d recipeDraft) childIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(d.Children))
	for _, c := range d.Children {
		out = append(out, c.ChildRecipeID)
	}
	return out
}

// normalizeRecipeInput validates the shape of in. It never touches the store.
func normalizeRecipeInput(in domainagg.RecipeInput, sanitizer urlsanitize.Sanitizer) (recipeDraft, error) {
	var d recipeDraft

	d.Title = strings.TrimSpace(in.Title)
	if d.Title == "" {
		return d, ValidationError(msgTitleRequired)
	}
	if utf8.RuneCountInString(d.Title) > recipes.MaxTitleLength {
		return d, ValidationError(msgTitleTooLong)
	}
	if in.Memo != nil {
		d.Memo = strings.TrimSpace(*in.Memo)
	}

	for i, ing := range in.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			return d, ValidationError(msgIngredientRequired)
		}
		d.Ingredients = append(d.Ingredients, types.Ingredient{
			Name:       name,
			Unit:       trimmedOrNil(ing.Unit),
			Notes:      trimmedOrNil(ing.Notes),
			OrderIndex: i,
		})
	}

	steps, err := orderSteps(in.Steps)
	if err != nil {
		return d, err
	}
	d.Steps = steps

	d.Source = buildSourceInfo(in.SourceInfo, sanitizer)
	d.TagIDs = in.Tags

	for _, c := range in.ChildRecipes {
		id, err := uuid.Parse(strings.TrimSpace(c.ChildRecipeID))
		if err != nil || id == uuid.Nil {
			return d, ValidationError(msgInvalidChildren)
		}
		d.Children = append(d.Children, childDraft{
			ChildRecipeID: id,
			Quantity:      trimmedOrNil(c.Quantity),
			Notes:         trimmedOrNil(c.Notes),
		})
	}
	if err := RequireUnique(d.childIDs(), msgDuplicateChild); err != nil {
		return d, err
	}
	return d, nil
}

// orderSteps sorts by stepNumber, else orderIndex+1, else position, and renumbers 1..n.
func orderSteps(in []domainagg.StepInput) ([]types.Step, error) {
	type keyed struct {
		key  int
		step types.Step
	}
	rows := make([]keyed, 0, len(in))
	for i, s := range in {
		instruction := strings.TrimSpace(s.Instruction)
		if instruction == "" {
			return nil, ValidationError(msgStepRequired)
		}
		if s.TimerSeconds != nil && *s.TimerSeconds < 0 {
			return nil, ValidationError(msgTimerNegative)
		}
		key := i + 1
		switch {
		case s.StepNumber != nil:
			key = *s.StepNumber
		case s.OrderIndex != nil:
			key = *s.OrderIndex + 1
		}
		rows = append(rows, keyed{key: key, step: types.Step{Instruction: instruction, TimerSeconds: s.TimerSeconds}})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].key < rows[b].key })

	out := make([]types.Step, 0, len(rows))
	for i, r := range rows {
		r.step.StepNumber = i + 1
		out = append(out, r.step)
	}
	return out, nil
}

// buildSourceInfo returns nil unless at least one field survives trimming and sanitizing.
func buildSourceInfo(in *domainagg.SourceInfoInput, sanitizer urlsanitize.Sanitizer) *types.SourceInfo {
	if in == nil {
		return nil
	}
	src := &types.SourceInfo{
		BookName:   trimmedOrNil(in.BookName),
		PageNumber: trimmedOrNil(in.PageNumber),
	}
	if raw := trimmedOrNil(in.URL); raw != nil && sanitizer != nil {
		src.URL = sanitizer.Sanitize(*raw)
	}
	if src.IsEmpty() {
		return nil
	}
	return src
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

type recipeSnapshot struct {
	Title       string                  `json:"title"`
	Memo        string                  `json:"memo,omitempty"`
	Ingredients []*types.Ingredient     `json:"ingredients"`
	Steps       []*types.Step           `json:"steps"`
	SourceInfo  *types.SourceInfo       `json:"sourceInfo,omitempty"`
	TagIDs      []uuid.UUID             `json:"tagIds"`
	Children    []*types.RecipeRelation `json:"childRecipes"`
}

// writtenRows holds the owned rows persisted by one write.
type writtenRows struct {
	Ingredients []*types.Ingredient
	Steps       []*types.Step
	Source      *types.SourceInfo
	TagIDs      []uuid.UUID
	Relations   []*types.RecipeRelation
}

func buildSnapshot(d recipeDraft, w writtenRows) (datatypes.JSON, error) {
	raw, err := json.Marshal(recipeSnapshot{
		Title:       d.Title,
		Memo:        d.Memo,
		Ingredients: w.Ingredients,
		Steps:       w.Steps,
		SourceInfo:  w.Source,
		TagIDs:      w.TagIDs,
		Children:    w.Relations,
	})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
