package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/services"
)

const (
	msgBadBody        = "入力内容が不正です"
	msgRecipeNotFound = "レシピが見つかりません"
)

type RecipeHandler struct {
	recipes services.RecipeService
}

func NewRecipeHandler(recipes services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// POST /api/recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var in domainagg.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, string(domainagg.CodeValidation), msgBadBody)
		return
	}
	res, err := h.recipes.CreateRecipe(c.Request.Context(), uuid.Nil, in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PUT /api/recipes/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}
	var in domainagg.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, string(domainagg.CodeValidation), msgBadBody)
		return
	}
	res, err := h.recipes.UpdateRecipe(c.Request.Context(), uuid.Nil, recipeID, in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), uuid.Nil, recipeID); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}
	detail, err := h.recipes.GetRecipeByID(c.Request.Context(), uuid.Nil, recipeID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	if detail == nil {
		response.RespondMessage(c, http.StatusNotFound, string(domainagg.CodeNotFound), msgRecipeNotFound)
		return
	}
	response.RespondOK(c, detail)
}

// GET /api/recipes?q=&tag=&tag=&limit=
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	q := services.RecipeQuery{Query: c.Query("q")}
	for _, raw := range c.QueryArray("tag") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				q.TagIDs = append(q.TagIDs, part)
			}
		}
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Limit = n
		}
	}
	items, err := h.recipes.GetRecipes(c.Request.Context(), uuid.Nil, q)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recipes": items})
}

// GET /api/tags
func (h *RecipeHandler) ListTags(c *gin.Context) {
	tags, err := h.recipes.ListTags(c.Request.Context(), uuid.Nil)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tags": tags})
}

// An unparsable id cannot name an owned recipe, so it reads as not found.
func recipeIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondMessage(c, http.StatusNotFound, string(domainagg.CodeNotFound), msgRecipeNotFound)
		return uuid.Nil, false
	}
	return id, true
}
