package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "bookmart/docs"
	"bookmart/internal/analytics"
	"bookmart/internal/caching"
	"bookmart/internal/config"
	"bookmart/internal/handlers"
	"bookmart/internal/jobs"
	"bookmart/internal/jobs/background"
	"bookmart/internal/log"
	"bookmart/internal/middleware"
	"bookmart/internal/repositories"
	"bookmart/internal/services"
	"bookmart/pkg/database"
)

const version = "1.0.0"

//	@title			Bookmart API
//	@version		1.0
//	@description	Book catalog management service with hierarchical categories.
//	@host			localhost:8080
//	@BasePath		/v1
func main() {
	log.Setup()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatal("failed to apply database schema", zap.Error(err))
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	coverBucket := os.Getenv("MINIO_BUCKET")
	if coverBucket == "" {
		coverBucket = "book-covers"
	}

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatal("failed to initialize MinIO service", zap.Error(err))
	}

	// Background job configuration
	jobCfg := config.DefaultAnalyticsConfig()
	if cfgPath := os.Getenv("ANALYTICS_CONFIG"); cfgPath != "" {
		jobCfg, err = config.LoadAnalyticsConfig(cfgPath)
		if err != nil {
			log.Fatal("failed to load analytics config", zap.String("path", cfgPath), zap.Error(err))
		}
	}

	// Create repositories
	categoryRepo := repositories.NewCategoryRepo(pool)
	bookRepo := repositories.NewBookRepo(pool)
	bookCategoryRepo := repositories.NewBookCategoryRepo(pool)
	authorRepo := repositories.NewAuthorRepo(pool)
	publisherRepo := repositories.NewPublisherRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	categorySvc := services.NewCategoryService(categoryRepo, cacheSvc)
	bookSvc := services.NewBookService(bookRepo, authorRepo, publisherRepo, reviewRepo, bookCategoryRepo, cacheSvc, minioSvc, coverBucket)
	bookCategorySvc := services.NewBookCategoryService(bookCategoryRepo, bookRepo, categoryRepo, cacheSvc)
	authorSvc := services.NewAuthorService(authorRepo)
	publisherSvc := services.NewPublisherService(publisherRepo)
	reviewSvc := services.NewReviewService(reviewRepo, bookRepo, cacheSvc)

	// Analytics and background jobs
	analyticsSvc := analytics.NewAnalyticsService(bookRepo, authorRepo, publisherRepo, categoryRepo, reviewRepo, cacheSvc)
	analyticsRefresh := jobs.NewAnalyticsRefreshService(analyticsSvc)
	cacheWarming := jobs.NewCacheWarmingService(categorySvc, jobCfg.CacheWarming.CategoryLimit)

	scheduler, err := background.NewJobScheduler(analyticsRefresh, cacheWarming, jobCfg)
	if err != nil {
		log.Fatal("failed to create job scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn("job scheduler shutdown failed", zap.Error(err))
		}
	}()

	// Create handlers
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	bookHandlers := handlers.NewBookHandlers(bookSvc, reviewSvc, bookCategorySvc)
	bookCategoryHandlers := handlers.NewBookCategoryHandlers(bookCategorySvc)
	authorHandlers := handlers.NewAuthorHandlers(authorSvc)
	publisherHandlers := handlers.NewPublisherHandlers(publisherSvc)
	reviewHandlers := handlers.NewReviewHandlers(reviewSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, minioSvc, coverBucket)
	jobHandlers := handlers.NewJobHandlers(analyticsSvc, analyticsRefresh, scheduler)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.RequestLogger())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)

	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "v1")

	// Category routes
	v1.GET("/categories", categoryHandlers.ListCategories)
	v1.POST("/categories", categoryHandlers.CreateCategory)
	v1.GET("/categories/:id", categoryHandlers.GetCategory)
	v1.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	v1.DELETE("/categories/:id", categoryHandlers.DeleteCategory)
	v1.GET("/categories/:id/path", categoryHandlers.GetCategoryPath)
	v1.GET("/categories/:id/subcategories", categoryHandlers.GetSubcategories)
	v1.POST("/categories/:id/activate", categoryHandlers.ActivateCategory)
	v1.POST("/categories/:id/deactivate", categoryHandlers.DeactivateCategory)

	// Book routes
	v1.GET("/books", bookHandlers.ListBooks)
	v1.POST("/books", bookHandlers.CreateBook)
	v1.GET("/books/:id", bookHandlers.GetBook)
	v1.PUT("/books/:id", bookHandlers.UpdateBook)
	v1.DELETE("/books/:id", bookHandlers.DeleteBook)
	v1.POST("/books/:id/cover", bookHandlers.UploadBookCover, middleware.RateLimit(cacheSvc, 10, time.Minute))
	v1.GET("/books/:id/cover", bookHandlers.GetBookCover)
	v1.DELETE("/books/:id/cover", bookHandlers.DeleteBookCover)
	v1.GET("/books/:id/reviews", bookHandlers.GetBookReviews)
	v1.GET("/books/:id/categories", bookHandlers.GetBookCategories)

	// Author routes
	v1.GET("/authors", authorHandlers.ListAuthors)
	v1.POST("/authors", authorHandlers.CreateAuthor)
	v1.GET("/authors/:id", authorHandlers.GetAuthor)
	v1.PUT("/authors/:id", authorHandlers.UpdateAuthor)
	v1.DELETE("/authors/:id", authorHandlers.DeleteAuthor)

	// Publisher routes
	v1.GET("/publishers", publisherHandlers.ListPublishers)
	v1.POST("/publishers", publisherHandlers.CreatePublisher)
	v1.GET("/publishers/:id", publisherHandlers.GetPublisher)
	v1.PUT("/publishers/:id", publisherHandlers.UpdatePublisher)
	v1.DELETE("/publishers/:id", publisherHandlers.DeletePublisher)

	// Book-category link routes
	v1.GET("/book-categories", bookCategoryHandlers.ListBookCategories)
	v1.POST("/book-categories", bookCategoryHandlers.CreateBookCategory)
	v1.GET("/book-categories/:id", bookCategoryHandlers.GetBookCategory)
	v1.PUT("/book-categories/:id", bookCategoryHandlers.UpdateBookCategory)
	v1.DELETE("/book-categories/:id", bookCategoryHandlers.DeleteBookCategory)

	// Review routes
	v1.GET("/reviews", reviewHandlers.ListReviews)
	v1.POST("/reviews", reviewHandlers.CreateReview)
	v1.GET("/reviews/:id", reviewHandlers.GetReview)
	v1.PUT("/reviews/:id", reviewHandlers.UpdateReview)
	v1.DELETE("/reviews/:id", reviewHandlers.DeleteReview)

	// Analytics and job routes
	v1.GET("/analytics/catalog", jobHandlers.GetCatalogAnalytics)
	v1.POST("/jobs/analytics-refresh", jobHandlers.TriggerAnalyticsRefresh)
	v1.GET("/jobs/status", jobHandlers.GetJobStatus)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatal("invalid port", zap.String("port", portStr), zap.Error(err))
	}

	log.Info("bookmart server starting", zap.String("version", version), zap.Int("port", port))
	if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
