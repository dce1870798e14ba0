package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookmart/internal/log"
	"bookmart/internal/services"
)

// CacheWarmingService precomputes category paths so browse traffic hits the
// cache instead of walking the tree per request.
type CacheWarmingService struct {
	categoryService services.CategoryService
	categoryLimit   int
}

func NewCacheWarmingService(categoryService services.CategoryService, categoryLimit int) *CacheWarmingService {
	if categoryLimit <= 0 {
		categoryLimit = 1000
	}
	return &CacheWarmingService{
		categoryService: categoryService,
		categoryLimit:   categoryLimit,
	}
}

// WarmCategoryPaths resolves the full path of every category, priming the
// path cache as a side effect.
func (s *CacheWarmingService) WarmCategoryPaths(ctx context.Context) error {
	start := time.Now()

	categories, err := s.categoryService.List(ctx, s.categoryLimit, 0)
	if err != nil {
		log.Error("cache warming failed to list categories", zap.Error(err))
		return err
	}

	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup
	var mu sync.Mutex
	warmed, failed := 0, 0

	for _, category := range categories {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			_, pathErr := s.categoryService.FullPath(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if pathErr != nil {
				failed++
			} else {
				warmed++
			}
		}(category.ID)
	}
	wg.Wait()

	log.Info("category path cache warmed",
		zap.Int("warmed", warmed),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
