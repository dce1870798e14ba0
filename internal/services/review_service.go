package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookmart/internal/caching"
	"bookmart/internal/log"
	"bookmart/internal/models"
	"bookmart/internal/repositories"
)

type ReviewService interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.Review, error)
}

type reviewService struct {
	reviews repositories.ReviewRepository
	books   repositories.BookRepository
	cache   caching.CacheService
}

func NewReviewService(reviews repositories.ReviewRepository, books repositories.BookRepository, cache caching.CacheService) ReviewService {
	return &reviewService{reviews: reviews, books: books, cache: cache}
}

func validateReviewFields(review *models.Review) error {
	review.ReviewerName = strings.TrimSpace(review.ReviewerName)
	if review.ReviewerName == "" || len(review.ReviewerName) > 255 {
		return fmt.Errorf("%w: reviewer name is required and must be at most 255 characters", models.ErrValidation)
	}
	if strings.TrimSpace(review.Content) == "" {
		return fmt.Errorf("%w: review content is required", models.ErrValidation)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}
	return nil
}

func (s *reviewService) Create(ctx context.Context, review *models.Review) error {
	if err := validateReviewFields(review); err != nil {
		return err
	}

	if _, err := s.books.GetByID(ctx, review.BookID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: book does not exist", models.ErrValidation)
		}
		return err
	}

	review.ID = uuid.New()
	if err := s.reviews.Create(ctx, review); err != nil {
		return err
	}

	s.invalidate(ctx)
	log.Info("review created",
		zap.String("review_id", review.ID.String()),
		zap.String("book_id", review.BookID.String()),
		zap.Int("rating", review.Rating))
	return nil
}

func (s *reviewService) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

func (s *reviewService) Update(ctx context.Context, review *models.Review) error {
	if err := validateReviewFields(review); err != nil {
		return err
	}

	existing, err := s.reviews.GetByID(ctx, review.ID)
	if err != nil {
		return err
	}

	existing.ReviewerName = review.ReviewerName
	existing.Content = review.Content
	existing.Rating = review.Rating
	if err := s.reviews.Update(ctx, existing); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *reviewService) List(ctx context.Context, limit, offset int) ([]*models.Review, error) {
	return s.reviews.List(ctx, limit, offset)
}

func (s *reviewService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.Review, error) {
	return s.reviews.ListByBook(ctx, bookID)
}

func (s *reviewService) invalidate(ctx context.Context) {
	if err := s.cache.DeleteCatalogStats(ctx); err != nil {
		log.Warn("catalog stats cache invalidation failed", zap.Error(err))
	}
}
