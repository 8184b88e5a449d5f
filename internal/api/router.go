package api

import (
	"github.com/gin-gonic/gin"
	"github.com/minhvu/coolsearch/internal/api/handler"
	"github.com/minhvu/coolsearch/internal/api/middleware"
	"github.com/minhvu/coolsearch/internal/config"
	"github.com/minhvu/coolsearch/internal/repository"
	"github.com/minhvu/coolsearch/internal/service"
	"github.com/minhvu/coolsearch/internal/storage"
)

// SetupRouter configures the Gin router with all routes and middleware.
func SetupRouter(
	searchService *service.SearchService,
	recommendService *service.RecommendService,
	syncService *service.SyncService,
	productRepo *repository.ProductRepository,
	jobRepo *repository.SyncJobRepository,
	artifactStore storage.ObjectStorage,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	searchHandler := handler.NewSearchHandler(searchService)
	productHandler := handler.NewProductHandler(searchService)
	recommendHandler := handler.NewRecommendHandler(searchService, recommendService)
	adminHandler := handler.NewAdminHandler(syncService, productRepo, jobRepo, artifactStore, cfg.Qdrant.Collection)

	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/search", searchHandler.Search)
		v1.GET("/search", searchHandler.SearchGet)
		v1.GET("/categories", searchHandler.GetCategories)
		v1.GET("/stats", searchHandler.GetStats)

		v1.GET("/products", productHandler.ListProducts)
		v1.GET("/products/:id", productHandler.GetProduct)

		v1.POST("/recommend", recommendHandler.Recommend)

		admin := v1.Group("/admin")
		{
			admin.POST("/sync", adminHandler.Sync)
			admin.POST("/export", adminHandler.Export)
			admin.GET("/jobs/latest", adminHandler.LatestJob)
		}
	}

	return router
}
