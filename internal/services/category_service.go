package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookmart/internal/caching"
	"bookmart/internal/log"
	"bookmart/internal/models"
	"bookmart/internal/repositories"
)

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CategoryDetail, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
	// FullPath returns the names from the root down to the category joined
	// with " > ".
	FullPath(ctx context.Context, id uuid.UUID) (string, error)
	// Subtree returns all descendants of the category in pre-order, siblings
	// ordered by display_order then name. The category itself is excluded.
	Subtree(ctx context.Context, id uuid.UUID) ([]*models.Category, error)
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categories repositories.CategoryRepository
	cache      caching.CacheService
}

func NewCategoryService(categories repositories.CategoryRepository, cache caching.CacheService) CategoryService {
	return &categoryService{categories: categories, cache: cache}
}

var (
	categoryNameRe = regexp.MustCompile(`^[A-Za-z0-9\s\-]+$`)
	categorySlugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

const categoryCacheTTL = 15 * time.Minute

func validateCategoryFields(category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if len(category.Name) < 2 || len(category.Name) > 100 {
		return fmt.Errorf("%w: category name must be between 2 and 100 characters", models.ErrValidation)
	}
	if !categoryNameRe.MatchString(category.Name) {
		return fmt.Errorf("%w: category name may only contain letters, numbers, spaces and hyphens", models.ErrValidation)
	}
	if category.Slug == "" || len(category.Slug) > 120 || !categorySlugRe.MatchString(category.Slug) {
		return fmt.Errorf("%w: slug must be lowercase letters, numbers and hyphens, at most 120 characters", models.ErrValidation)
	}
	if category.DisplayOrder < 0 || category.DisplayOrder > 1000 {
		return fmt.Errorf("%w: display order must be between 0 and 1000", models.ErrValidation)
	}
	return nil
}

type categoryFetcher func(ctx context.Context, id uuid.UUID) (*models.Category, error)

// validateParentAssignment rejects parent links that would make the category
// its own ancestor. It walks up from the candidate parent following parent
// links; the walk fails if it reaches the category itself, sees an ancestor
// pointing back at the candidate parent, or runs longer than the total number
// of categories (which can only happen when the stored chain already loops).
func (s *categoryService) validateParentAssignment(ctx context.Context, categoryID, parentID uuid.UUID, total int, fetch categoryFetcher) error {
	if parentID == categoryID {
		return models.ErrSelfParent
	}

	current, err := fetch(ctx, parentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrParentNotFound
		}
		return err
	}

	for steps := 0; ; steps++ {
		if steps >= total {
			return models.ErrCyclicReference
		}
		if current.ID == categoryID {
			return models.ErrCyclicReference
		}
		if current.ParentID == nil {
			return nil
		}
		if *current.ParentID == parentID {
			return models.ErrCyclicReference
		}
		current, err = fetch(ctx, *current.ParentID)
		if err != nil {
			return err
		}
	}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	if err := validateCategoryFields(category); err != nil {
		return err
	}

	existing, err := s.categories.GetBySlug(ctx, category.Slug)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if existing != nil {
		return models.ErrDuplicateSlug
	}

	category.ID = uuid.New()
	if category.ParentID != nil {
		total, err := s.categories.Count(ctx)
		if err != nil {
			return err
		}
		if err := s.validateParentAssignment(ctx, category.ID, *category.ParentID, total, s.categories.GetByID); err != nil {
			return err
		}
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return err
	}

	s.invalidateCategory(ctx, category.ID)
	log.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("slug", category.Slug))
	return nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.CategoryDetail, error) {
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.CategoryDetail{Category: *category}

	if category.ParentID != nil {
		parent, err := s.getCategory(ctx, *category.ParentID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		if parent != nil {
			detail.ParentName = &parent.Name
		}
	}

	count, err := s.categories.CountByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.SubcategoryCount = count

	path, err := s.FullPath(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.FullPath = path

	return detail, nil
}

// Update replaces the category's fields. The parent walk and the
// active-children check run inside one transaction with the touched rows
// locked, so two concurrent reparents cannot slip a cycle past each other.
func (s *categoryService) Update(ctx context.Context, category *models.Category) error {
	if err := validateCategoryFields(category); err != nil {
		return err
	}

	bySlug, err := s.categories.GetBySlug(ctx, category.Slug)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if bySlug != nil && bySlug.ID != category.ID {
		return models.ErrDuplicateSlug
	}

	tx, err := s.categories.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	existing, err := s.categories.GetForUpdateTx(ctx, tx, category.ID)
	if err != nil {
		return err
	}

	if category.ParentID != nil {
		total, err := s.categories.CountTx(ctx, tx)
		if err != nil {
			return err
		}
		fetch := func(ctx context.Context, id uuid.UUID) (*models.Category, error) {
			return s.categories.GetForUpdateTx(ctx, tx, id)
		}
		if err := s.validateParentAssignment(ctx, category.ID, *category.ParentID, total, fetch); err != nil {
			return err
		}
	}

	if existing.IsActive && !category.IsActive {
		hasActive, err := s.categories.HasActiveChildrenTx(ctx, tx, category.ID)
		if err != nil {
			return err
		}
		if hasActive {
			return models.ErrActiveChildrenExist
		}
	}

	if err := s.categories.UpdateTx(ctx, tx, category); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidateCategory(ctx, category.ID)
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	// Children are re-rooted by the FK's ON DELETE SET NULL.
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCategory(ctx, id)
	log.Info("category deleted", zap.String("category_id", id.String()))
	return nil
}

func (s *categoryService) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	return s.categories.List(ctx, limit, offset)
}

func (s *categoryService) FullPath(ctx context.Context, id uuid.UUID) (string, error) {
	cached, err := s.cache.GetCategoryPath(ctx, id)
	if err != nil {
		log.Warn("category path cache read failed", zap.Error(err))
	} else if cached != "" {
		return cached, nil
	}

	total, err := s.categories.Count(ctx)
	if err != nil {
		return "", err
	}

	current, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	names := []string{current.Name}
	for steps := 0; current.ParentID != nil; steps++ {
		if steps >= total {
			return "", models.ErrCyclicReference
		}
		current, err = s.categories.GetByID(ctx, *current.ParentID)
		if err != nil {
			return "", err
		}
		names = append(names, current.Name)
	}

	// Collected leaf first, so reverse before joining.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	path := strings.Join(names, " > ")

	if err := s.cache.SetCategoryPath(ctx, id, path, categoryCacheTTL); err != nil {
		log.Warn("category path cache write failed", zap.Error(err))
	}
	return path, nil
}

func (s *categoryService) Subtree(ctx context.Context, id uuid.UUID) ([]*models.Category, error) {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	total, err := s.categories.Count(ctx)
	if err != nil {
		return nil, err
	}

	children, err := s.categories.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	result := []*models.Category{}
	var stack []*models.Category
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, node)
		if len(result) > total {
			return nil, models.ErrCyclicReference
		}

		kids, err := s.categories.ListChildren(ctx, node.ID)
		if err != nil {
			return nil, err
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return result, nil
}

func (s *categoryService) Activate(ctx context.Context, id uuid.UUID) error {
	tx, err := s.categories.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	category, err := s.categories.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if category.IsActive {
		return nil
	}

	category.IsActive = true
	if err := s.categories.UpdateTx(ctx, tx, category); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidateCategory(ctx, id)
	return nil
}

// Deactivate flips the category inactive. Only direct children are checked;
// an active grandchild under an inactive child does not block.
func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	tx, err := s.categories.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	category, err := s.categories.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if !category.IsActive {
		return nil
	}

	hasActive, err := s.categories.HasActiveChildrenTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if hasActive {
		return models.ErrActiveChildrenExist
	}

	category.IsActive = false
	if err := s.categories.UpdateTx(ctx, tx, category); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidateCategory(ctx, id)
	return nil
}

func (s *categoryService) getCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cached, err := s.cache.GetCategory(ctx, id)
	if err != nil {
		log.Warn("category cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCategory(ctx, category, categoryCacheTTL); err != nil {
		log.Warn("category cache write failed", zap.Error(err))
	}
	return category, nil
}

func (s *categoryService) invalidateCategory(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteCategory(ctx, id); err != nil {
		log.Warn("category cache invalidation failed", zap.String("category_id", id.String()), zap.Error(err))
	}
	if err := s.cache.InvalidateCategoryPaths(ctx); err != nil {
		log.Warn("category path cache invalidation failed", zap.Error(err))
	}
}
