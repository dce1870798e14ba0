package analytics

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"bookmart/internal/caching"
	"bookmart/internal/log"
	"bookmart/internal/repositories"
)

// AnalyticsService computes catalog-wide statistics and keeps a cached copy
// in Redis so the analytics endpoint does not hit the database on every call.
type AnalyticsService struct {
	bookRepo      repositories.BookRepository
	authorRepo    repositories.AuthorRepository
	publisherRepo repositories.PublisherRepository
	categoryRepo  repositories.CategoryRepository
	reviewRepo    repositories.ReviewRepository
	cacheService  caching.CacheService
}

// CatalogStats is the computed snapshot of the catalog.
type CatalogStats struct {
	TotalBooks       int            `json:"total_books"`
	TotalAuthors     int            `json:"total_authors"`
	TotalPublishers  int            `json:"total_publishers"`
	TotalCategories  int            `json:"total_categories"`
	TotalReviews     int            `json:"total_reviews"`
	BestsellerCount  int            `json:"bestseller_count"`
	AverageRating    *float64       `json:"average_rating,omitempty"`
	BooksPerLanguage map[string]int `json:"books_per_language"`
	BooksPerCategory map[string]int `json:"books_per_category"`
	LastUpdated      time.Time      `json:"last_updated"`
}

const catalogStatsTTL = 15 * time.Minute

func NewAnalyticsService(
	bookRepo repositories.BookRepository,
	authorRepo repositories.AuthorRepository,
	publisherRepo repositories.PublisherRepository,
	categoryRepo repositories.CategoryRepository,
	reviewRepo repositories.ReviewRepository,
	cacheService caching.CacheService,
) *AnalyticsService {
	return &AnalyticsService{
		bookRepo:      bookRepo,
		authorRepo:    authorRepo,
		publisherRepo: publisherRepo,
		categoryRepo:  categoryRepo,
		reviewRepo:    reviewRepo,
		cacheService:  cacheService,
	}
}

// CalculateCatalogStats recomputes the snapshot from the database.
func (a *AnalyticsService) CalculateCatalogStats(ctx context.Context) (*CatalogStats, error) {
	stats := &CatalogStats{LastUpdated: time.Now()}

	var err error
	if stats.TotalBooks, err = a.bookRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalAuthors, err = a.authorRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPublishers, err = a.publisherRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = a.categoryRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalReviews, err = a.reviewRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.BestsellerCount, err = a.bookRepo.CountBestsellers(ctx); err != nil {
		return nil, err
	}
	if stats.AverageRating, err = a.reviewRepo.GlobalAverageRating(ctx); err != nil {
		return nil, err
	}
	if stats.BooksPerLanguage, err = a.bookRepo.CountByLanguage(ctx); err != nil {
		return nil, err
	}
	if stats.BooksPerCategory, err = a.bookRepo.CategoryDistribution(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetCatalogStats returns the cached snapshot, recomputing and re-caching it
// on a miss.
func (a *AnalyticsService) GetCatalogStats(ctx context.Context) (map[string]interface{}, error) {
	cached, err := a.cacheService.GetCatalogStats(ctx)
	if err != nil {
		log.Warn("catalog stats cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	stats, err := a.CalculateCatalogStats(ctx)
	if err != nil {
		return nil, err
	}

	asMap, err := statsToMap(stats)
	if err != nil {
		return nil, err
	}
	if err := a.cacheService.SetCatalogStats(ctx, asMap, catalogStatsTTL); err != nil {
		log.Warn("catalog stats cache write failed", zap.Error(err))
	}
	return asMap, nil
}

// RefreshCatalogStats recomputes the snapshot and overwrites the cache
// unconditionally. The background scheduler and the manual refresh endpoint
// both land here.
func (a *AnalyticsService) RefreshCatalogStats(ctx context.Context) (*CatalogStats, error) {
	stats, err := a.CalculateCatalogStats(ctx)
	if err != nil {
		return nil, err
	}

	asMap, err := statsToMap(stats)
	if err != nil {
		return nil, err
	}
	if err := a.cacheService.SetCatalogStats(ctx, asMap, catalogStatsTTL); err != nil {
		log.Warn("catalog stats cache write failed", zap.Error(err))
	}
	return stats, nil
}

func statsToMap(stats *CatalogStats) (map[string]interface{}, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return nil, err
	}
	var asMap map[string]interface{}
	if err := json.Unmarshal(data, &asMap); err != nil {
		return nil, err
	}
	return asMap, nil
}
