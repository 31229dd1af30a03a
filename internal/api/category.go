package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/apitizers/backend/internal/service"
)

type CategoryHandler struct {
	categories service.ICategoryService
}

func NewCategoryHandler(categories service.ICategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", h.ListCategories)
	router.GET("/categories/:id", h.GetCategory)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, cat)
}
