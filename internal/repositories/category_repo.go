package repositories

import (
	"context"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	// GetForUpdateTx loads a category inside tx with a row lock, serializing
	// concurrent parent reassignments and deactivations of the same node.
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Category, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Category, error)
	Count(ctx context.Context) (int, error)
	CountTx(ctx context.Context, tx pgx.Tx) (int, error)
	CountByParent(ctx context.Context, parentID uuid.UUID) (int, error)
	HasActiveChildrenTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

type categoryRepo struct {
	db DB
}

func NewCategoryRepo(db DB) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = `id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(&category.ID, &category.Name, &category.Description, &category.Slug,
		&category.IsActive, &category.DisplayOrder, &category.ParentID,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return category, nil
}

func (r *categoryRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.Name, category.Description,
		category.Slug, category.IsActive, category.DisplayOrder, category.ParentID)
	return translateError(err)
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(r.db.QueryRow(ctx, query, id))
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	return scanCategory(r.db.QueryRow(ctx, query, slug))
}

func (r *categoryRepo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 FOR UPDATE`
	return scanCategory(tx.QueryRow(ctx, query, id))
}

func (r *categoryRepo) UpdateTx(ctx context.Context, tx pgx.Tx, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, slug = $3, is_active = $4, display_order = $5, parent_id = $6, updated_at = NOW()
		WHERE id = $7
	`
	tag, err := tx.Exec(ctx, query, category.Name, category.Description, category.Slug,
		category.IsActive, category.DisplayOrder, category.ParentID, category.ID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *categoryRepo) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY display_order ASC, name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE parent_id = $1
		ORDER BY display_order ASC, name ASC
	`
	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *categoryRepo) CountTx(ctx context.Context, tx pgx.Tx) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *categoryRepo) CountByParent(ctx context.Context, parentID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, parentID).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *categoryRepo) HasActiveChildrenTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM categories WHERE parent_id = $1 AND is_active = TRUE`
	err := tx.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}
