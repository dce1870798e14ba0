package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bookmart/internal/analytics"
	"bookmart/internal/log"
)

type AnalyticsRefreshService struct {
	analyticsService *analytics.AnalyticsService
}

type AnalyticsRefreshResult struct {
	DataUpdated   bool      `json:"data_updated"`
	TotalBooks    int       `json:"total_books"`
	LastRefreshAt time.Time `json:"last_refresh_at"`
}

func NewAnalyticsRefreshService(analyticsService *analytics.AnalyticsService) *AnalyticsRefreshService {
	return &AnalyticsRefreshService{
		analyticsService: analyticsService,
	}
}

// RefreshCatalogStats recomputes the catalog snapshot and rewrites the cache.
func (a *AnalyticsRefreshService) RefreshCatalogStats(ctx context.Context) (*AnalyticsRefreshResult, error) {
	stats, err := a.analyticsService.RefreshCatalogStats(ctx)
	if err != nil {
		log.Error("catalog stats refresh failed", zap.Error(err))
		return nil, err
	}

	result := &AnalyticsRefreshResult{
		DataUpdated:   true,
		TotalBooks:    stats.TotalBooks,
		LastRefreshAt: stats.LastUpdated,
	}

	log.Info("catalog stats refreshed",
		zap.Int("total_books", stats.TotalBooks),
		zap.Int("total_categories", stats.TotalCategories),
		zap.Int("total_reviews", stats.TotalReviews))
	return result, nil
}

// ScheduledAnalyticsRefresh is the entry point the background scheduler runs.
func (a *AnalyticsRefreshService) ScheduledAnalyticsRefresh(ctx context.Context) error {
	start := time.Now()
	defer func() {
		log.Info("scheduled analytics refresh completed", zap.Duration("elapsed", time.Since(start)))
	}()

	if _, err := a.RefreshCatalogStats(ctx); err != nil {
		log.Error("scheduled analytics refresh failed", zap.Error(err))
		return err
	}
	return nil
}
