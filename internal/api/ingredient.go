package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/service"
)

type IngredientHandler struct {
	ingredients service.IIngredientService
}

func NewIngredientHandler(ingredients service.IIngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.POST("", h.CreateIngredient)
		ingredients.GET("/:id", h.GetIngredient)
		ingredients.PUT("/:id", h.UpdateIngredient)
		ingredients.DELETE("/:id", h.DeleteIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	list, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ing, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var in service.IngredientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperr.Invalid("invalid request body: %v", err))
		return
	}
	ing, err := h.ingredients.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in service.IngredientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperr.Invalid("invalid request body: %v", err))
		return
	}
	ing, err := h.ingredients.Update(c.Request.Context(), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.ingredients.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
