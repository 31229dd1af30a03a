package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/service"
)

type RecipeHandler struct {
	recipes        service.IRecipeService
	associations   service.IRecipeIngredientService
	maxUploadBytes int64
	log            *logger.Logger
}

func NewRecipeHandler(recipes service.IRecipeService, associations service.IRecipeIngredientService, maxUploadBytes int64, log *logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:        recipes,
		associations:   associations,
		maxUploadBytes: maxUploadBytes,
		log:            log.With("handler", "RecipeHandler"),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.PATCH("/:id/toggle-favorite", h.ToggleFavorite)

		recipes.GET("/:id/ingredients", h.ListIngredients)
		recipes.POST("/:id/ingredients", h.AddIngredient)
		recipes.DELETE("/:id/ingredients", h.ClearIngredients)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	in, image, err := h.bindRecipe(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := h.recipes.Create(c.Request.Context(), *in, image)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	in, image, err := h.bindRecipe(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := h.recipes.Update(c.Request.Context(), id, *in, image)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) ListIngredients(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	lines, err := h.associations.List(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *RecipeHandler) AddIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var line service.IngredientLine
	if err := c.ShouldBindJSON(&line); err != nil {
		_ = c.Error(apperr.Invalid("invalid ingredient line: %v", err))
		return
	}
	view, err := h.associations.Add(c.Request.Context(), id, line)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) ClearIngredients(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.associations.Clear(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindRecipe reads either a JSON body or a multipart form holding a "recipe"
// JSON part and an optional "image" file.
func (h *RecipeHandler) bindRecipe(c *gin.Context) (*service.RecipeInput, *service.ImageUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var in service.RecipeInput
		if err := c.ShouldBindJSON(&in); err != nil {
			return nil, nil, bodyError(err)
		}
		return &in, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, bodyError(err)
	}

	raw, err := recipePart(form)
	if err != nil {
		return nil, nil, err
	}
	var in service.RecipeInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, nil, apperr.Invalid("invalid recipe payload: %v", err)
	}

	files := form.File["image"]
	if len(files) == 0 {
		return &in, nil, nil
	}
	image, err := readImage(files[0])
	if err != nil {
		return nil, nil, err
	}
	return &in, image, nil
}

func recipePart(form *multipart.Form) ([]byte, error) {
	if values := form.Value["recipe"]; len(values) > 0 {
		return []byte(values[0]), nil
	}
	if files := form.File["recipe"]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			return nil, apperr.Invalid("unreadable recipe part: %v", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return nil, apperr.Invalid("multipart request is missing the recipe part")
}

func readImage(fh *multipart.FileHeader) (*service.ImageUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Invalid("unreadable image: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Invalid("unreadable image: %v", err)
	}
	return &service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Invalid("request body exceeds %d bytes", tooLarge.Limit)
	}
	return apperr.Invalid("invalid request body: %v", err)
}
