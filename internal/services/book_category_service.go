package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookmart/internal/caching"
	"bookmart/internal/log"
	"bookmart/internal/models"
	"bookmart/internal/repositories"
)

type BookCategoryService interface {
	Create(ctx context.Context, link *models.BookCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BookCategoryDetail, error)
	// Update changes the primary flag and relevance score of an existing
	// link. The book and category of a link are fixed at creation.
	Update(ctx context.Context, link *models.BookCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.BookCategoryDetail, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.BookCategoryDetail, error)
}

type bookCategoryService struct {
	links      repositories.BookCategoryRepository
	books      repositories.BookRepository
	categories repositories.CategoryRepository
	cache      caching.CacheService
}

func NewBookCategoryService(
	links repositories.BookCategoryRepository,
	books repositories.BookRepository,
	categories repositories.CategoryRepository,
	cache caching.CacheService,
) BookCategoryService {
	return &bookCategoryService{links: links, books: books, categories: categories, cache: cache}
}

func validateRelevanceScore(score float64) error {
	if score < 0 || score > 10 {
		return fmt.Errorf("%w: relevance score must be between 0 and 10", models.ErrValidation)
	}
	return nil
}

// Create inserts a link inside a transaction that first locks the book row.
// Concurrent writers for the same book serialize on that lock, so the primary
// count cannot change between the check and the insert. The partial unique
// index on (book_id) WHERE "primary" backstops writers that skip this path.
func (s *bookCategoryService) Create(ctx context.Context, link *models.BookCategory) error {
	if err := validateRelevanceScore(link.RelevanceScore); err != nil {
		return err
	}

	if _, err := s.categories.GetByID(ctx, link.CategoryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: category does not exist", models.ErrValidation)
		}
		return err
	}

	existing, err := s.links.GetByBookAndCategory(ctx, link.BookID, link.CategoryID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if existing != nil {
		return models.ErrDuplicateAssociation
	}

	tx, err := s.links.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := s.books.GetForUpdateTx(ctx, tx, link.BookID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: book does not exist", models.ErrValidation)
		}
		return err
	}

	if link.Primary {
		count, err := s.links.CountPrimaryTx(ctx, tx, link.BookID, nil)
		if err != nil {
			return err
		}
		if count > 0 {
			return models.ErrMultiplePrimaryCategories
		}
	}

	link.ID = uuid.New()
	if err := s.links.CreateTx(ctx, tx, link); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidate(ctx, link.BookID)
	log.Info("book category link created",
		zap.String("book_id", link.BookID.String()),
		zap.String("category_id", link.CategoryID.String()),
		zap.Bool("primary", link.Primary))
	return nil
}

func (s *bookCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.BookCategoryDetail, error) {
	return s.links.GetDetailByID(ctx, id)
}

func (s *bookCategoryService) Update(ctx context.Context, link *models.BookCategory) error {
	if err := validateRelevanceScore(link.RelevanceScore); err != nil {
		return err
	}

	existing, err := s.links.GetByID(ctx, link.ID)
	if err != nil {
		return err
	}

	tx, err := s.links.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := s.books.GetForUpdateTx(ctx, tx, existing.BookID); err != nil {
		return err
	}

	if link.Primary {
		count, err := s.links.CountPrimaryTx(ctx, tx, existing.BookID, &existing.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return models.ErrMultiplePrimaryCategories
		}
	}

	existing.Primary = link.Primary
	existing.RelevanceScore = link.RelevanceScore
	if err := s.links.UpdateTx(ctx, tx, existing); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidate(ctx, existing.BookID)
	return nil
}

func (s *bookCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.links.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.links.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.BookID)
	return nil
}

func (s *bookCategoryService) List(ctx context.Context, limit, offset int) ([]*models.BookCategoryDetail, error) {
	return s.links.List(ctx, limit, offset)
}

func (s *bookCategoryService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.BookCategoryDetail, error) {
	return s.links.ListByBook(ctx, bookID)
}

func (s *bookCategoryService) invalidate(ctx context.Context, bookID uuid.UUID) {
	if err := s.cache.DeleteBook(ctx, bookID); err != nil {
		log.Warn("book cache invalidation failed", zap.String("book_id", bookID.String()), zap.Error(err))
	}
	if err := s.cache.DeleteCatalogStats(ctx); err != nil {
		log.Warn("catalog stats cache invalidation failed", zap.Error(err))
	}
}
