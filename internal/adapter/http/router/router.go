package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/http/handler"
	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/http/middleware"
	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/repository/postgres"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
	"github.com/nwakalordivine/AgriEase-AI/internal/usecase"
)

// Deps holds everything the HTTP layer is built from
type Deps struct {
	DB     *gorm.DB
	Redis  redis.Cmdable
	Logger *zap.Logger

	Classifier service.Classifier
	Storage    service.ObjectStorage
	Advisor    service.Advisor
	Weather    service.WeatherProvider

	// Metrics is optional
	Metrics middleware.RequestObserver

	MaxUploadBytes  int64
	AdviceMaxTokens int

	// UploadsDir is served under /uploads when the local storage backend is used
	UploadsDir   string
	HealthChecks []handler.ComponentCheck
}

// Setup creates and configures the Gin router
func Setup(d Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.Recovery(d.Logger))
	router.Use(middleware.CORS())
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}

	// Health endpoints
	healthHandler := handler.NewHealthHandler(d.DB, d.Redis, d.HealthChecks...)
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.UploadsDir != "" {
		router.Static("/uploads", d.UploadsDir)
	}

	// Initialize repositories
	catalogRepo := postgres.NewCatalogRepository(d.DB)
	methodRepo := postgres.NewMethodRepository(d.DB)
	detectionRepo := postgres.NewDetectionRepository(d.DB)
	climateRepo := postgres.NewClimateRepository(d.DB)

	// Initialize usecases
	resolver := usecase.NewEntityResolver(catalogRepo, d.Advisor, d.AdviceMaxTokens, d.Logger)
	detectionUC := usecase.NewDetectionUsecase(d.Storage, d.Classifier, resolver, detectionRepo, d.Logger)
	pestUC := usecase.NewPestUsecase(catalogRepo, methodRepo, d.Advisor, d.AdviceMaxTokens, d.Logger)
	diseaseUC := usecase.NewDiseaseUsecase(d.Advisor, d.AdviceMaxTokens)
	climateUC := usecase.NewClimateUsecase(climateRepo, d.Weather, d.Advisor, d.AdviceMaxTokens, d.Logger)

	// Initialize handlers
	detectionHandler := handler.NewDetectionHandler(detectionUC, d.MaxUploadBytes)
	pestHandler := handler.NewPestHandler(pestUC)
	diseaseHandler := handler.NewDiseaseHandler(diseaseUC)
	climateHandler := handler.NewClimateHandler(climateUC)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		pest := v1.Group("/pest")
		{
			pest.POST("/detect", detectionHandler.Detect(entity.CatalogKindPest))
			pest.GET("/detections", detectionHandler.List(entity.CatalogKindPest))
			pest.GET("/methods/:name", pestHandler.GetMethods)
			pest.GET("/:id", pestHandler.GetPest)
		}

		disease := v1.Group("/disease")
		{
			disease.POST("/detect", detectionHandler.Detect(entity.CatalogKindDisease))
			disease.GET("/detections", detectionHandler.List(entity.CatalogKindDisease))
			disease.POST("/analyze", diseaseHandler.Analyze)
		}

		climate := v1.Group("/climate")
		{
			climate.GET("/forecast/:region", climateHandler.Forecast)
			climate.GET("/recommendations/:region", climateHandler.Recommendations)
		}
	}

	return router
}
