package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/apitizers/backend/internal/database"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/metrics"
	"github.com/pageza/apitizers/backend/internal/service"
	"github.com/pageza/apitizers/backend/internal/storage"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	DB             *gorm.DB
	Store          storage.ObjectStore
	Cache          service.RecipeViewCache
	Metrics        *metrics.AggregateMetrics
	Log            *logger.Logger
	MaxUploadBytes int64
}

// SetupAPI wires the services and registers every route on router.
func SetupAPI(router *gin.Engine, deps Deps) {
	ingredientService := service.NewIngredientService(deps.DB, deps.Log)
	associationService := service.NewRecipeIngredientService(deps.DB, ingredientService, deps.Log)
	imagePublisher := service.NewImagePublisher(deps.Store, deps.Metrics, deps.Log)
	recipeService := service.NewRecipeService(deps.DB, associationService, imagePublisher, deps.Cache, deps.Metrics, deps.Log)
	categoryService := service.NewCategoryService(deps.DB, deps.Log)

	router.GET("/health", healthHandler(deps.DB))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	group := router.Group("/api")
	NewRecipeHandler(recipeService, associationService, deps.MaxUploadBytes, deps.Log).RegisterRoutes(group)
	NewIngredientHandler(ingredientService).RegisterRoutes(group)
	NewCategoryHandler(categoryService).RegisterRoutes(group)
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Database: err.Error()})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
