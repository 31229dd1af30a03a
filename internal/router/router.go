package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/apitizers/backend/config"
	"github.com/pageza/apitizers/backend/internal/api"
	"github.com/pageza/apitizers/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(cfg *config.Config, deps api.Deps) *gin.Engine {
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.ErrorHandler(deps.Log))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	if deps.MaxUploadBytes == 0 {
		deps.MaxUploadBytes = cfg.MaxUploadBytes
	}
	router.MaxMultipartMemory = deps.MaxUploadBytes

	api.SetupAPI(router, deps)
	return router
}
