package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bookmart/internal/log"
	"bookmart/internal/models"
)

// CacheService fronts Redis. Get methods return (nil, nil) on a cache miss so
// callers fall through to the database without branching on redis.Nil.
type CacheService interface {
	// Book caching
	GetBook(ctx context.Context, bookID uuid.UUID) (*models.Book, error)
	SetBook(ctx context.Context, book *models.Book, ttl time.Duration) error
	DeleteBook(ctx context.Context, bookID uuid.UUID) error

	// Category caching
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error)
	SetCategory(ctx context.Context, category *models.Category, ttl time.Duration) error
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error

	// Category path caching. Paths of every descendant change when a category
	// is renamed or reparented, so invalidation drops all path keys at once.
	GetCategoryPath(ctx context.Context, categoryID uuid.UUID) (string, error)
	SetCategoryPath(ctx context.Context, categoryID uuid.UUID, path string, ttl time.Duration) error
	InvalidateCategoryPaths(ctx context.Context) error

	// Catalog analytics caching
	GetCatalogStats(ctx context.Context) (map[string]interface{}, error)
	SetCatalogStats(ctx context.Context, stats map[string]interface{}, ttl time.Duration) error
	DeleteCatalogStats(ctx context.Context) error

	InvalidateAllCache(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port style addresses as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn("redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		log.Info("redis connection established", zap.String("addr", parsedAddr))
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetBook(ctx context.Context, bookID uuid.UUID) (*models.Book, error) {
	key := fmt.Sprintf("bookmart:book:%s", bookID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var book models.Book
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *redisCacheService) SetBook(ctx context.Context, book *models.Book, ttl time.Duration) error {
	key := fmt.Sprintf("bookmart:book:%s", book.ID.String())
	data, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	key := fmt.Sprintf("bookmart:book:%s", bookID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	key := fmt.Sprintf("bookmart:category:%s", categoryID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var category models.Category
	if err := json.Unmarshal(data, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *redisCacheService) SetCategory(ctx context.Context, category *models.Category, ttl time.Duration) error {
	key := fmt.Sprintf("bookmart:category:%s", category.ID.String())
	data, err := json.Marshal(category)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	key := fmt.Sprintf("bookmart:category:%s", categoryID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetCategoryPath(ctx context.Context, categoryID uuid.UUID) (string, error) {
	key := fmt.Sprintf("bookmart:category:path:%s", categoryID.String())
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) SetCategoryPath(ctx context.Context, categoryID uuid.UUID, path string, ttl time.Duration) error {
	key := fmt.Sprintf("bookmart:category:path:%s", categoryID.String())
	return r.client.Set(ctx, key, path, ttl).Err()
}

func (r *redisCacheService) InvalidateCategoryPaths(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "bookmart:category:path:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) GetCatalogStats(ctx context.Context) (map[string]interface{}, error) {
	data, err := r.client.Get(ctx, "bookmart:analytics:catalog").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *redisCacheService) SetCatalogStats(ctx context.Context, stats map[string]interface{}, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "bookmart:analytics:catalog", data, ttl).Err()
}

func (r *redisCacheService) DeleteCatalogStats(ctx context.Context) error {
	return r.client.Del(ctx, "bookmart:analytics:catalog").Err()
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "bookmart:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("bookmart:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
