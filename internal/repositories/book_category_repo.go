package repositories

import (
	"context"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookCategoryRepository interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	CreateTx(ctx context.Context, tx pgx.Tx, link *models.BookCategory) error
	UpdateTx(ctx context.Context, tx pgx.Tx, link *models.BookCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BookCategory, error)
	GetDetailByID(ctx context.Context, id uuid.UUID) (*models.BookCategoryDetail, error)
	GetByBookAndCategory(ctx context.Context, bookID, categoryID uuid.UUID) (*models.BookCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.BookCategoryDetail, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.BookCategoryDetail, error)
	// CountPrimaryTx counts the book's primary links inside tx, optionally
	// ignoring one link (the row being updated). Callers must hold the book
	// row lock so the count cannot change before commit.
	CountPrimaryTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, excludeID *uuid.UUID) (int, error)
}

type bookCategoryRepo struct {
	db DB
}

func NewBookCategoryRepo(db DB) BookCategoryRepository {
	return &bookCategoryRepo{db: db}
}

func (r *bookCategoryRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

func (r *bookCategoryRepo) CreateTx(ctx context.Context, tx pgx.Tx, link *models.BookCategory) error {
	query := `
		INSERT INTO book_categories (id, book_id, category_id, "primary", relevance_score, added_date)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := tx.Exec(ctx, query, link.ID, link.BookID, link.CategoryID, link.Primary, link.RelevanceScore)
	return translateError(err)
}

func (r *bookCategoryRepo) UpdateTx(ctx context.Context, tx pgx.Tx, link *models.BookCategory) error {
	query := `
		UPDATE book_categories
		SET "primary" = $1, relevance_score = $2
		WHERE id = $3
	`
	tag, err := tx.Exec(ctx, query, link.Primary, link.RelevanceScore, link.ID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

const bookCategoryColumns = `id, book_id, category_id, "primary", relevance_score, added_date`

func scanBookCategory(row pgx.Row) (*models.BookCategory, error) {
	link := &models.BookCategory{}
	err := row.Scan(&link.ID, &link.BookID, &link.CategoryID, &link.Primary,
		&link.RelevanceScore, &link.AddedDate)
	if err != nil {
		return nil, translateError(err)
	}
	return link, nil
}

func (r *bookCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BookCategory, error) {
	query := `SELECT ` + bookCategoryColumns + ` FROM book_categories WHERE id = $1`
	return scanBookCategory(r.db.QueryRow(ctx, query, id))
}

func (r *bookCategoryRepo) GetDetailByID(ctx context.Context, id uuid.UUID) (*models.BookCategoryDetail, error) {
	query := bookCategoryDetailQuery + ` WHERE bc.id = $1`
	detail := &models.BookCategoryDetail{}
	err := r.db.QueryRow(ctx, query, id).Scan(&detail.ID, &detail.BookID, &detail.CategoryID,
		&detail.Primary, &detail.RelevanceScore, &detail.AddedDate, &detail.BookTitle, &detail.CategoryName)
	if err != nil {
		return nil, translateError(err)
	}
	return detail, nil
}

func (r *bookCategoryRepo) GetByBookAndCategory(ctx context.Context, bookID, categoryID uuid.UUID) (*models.BookCategory, error) {
	query := `SELECT ` + bookCategoryColumns + ` FROM book_categories WHERE book_id = $1 AND category_id = $2`
	return scanBookCategory(r.db.QueryRow(ctx, query, bookID, categoryID))
}

func (r *bookCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM book_categories WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

const bookCategoryDetailQuery = `
	SELECT bc.id, bc.book_id, bc.category_id, bc."primary", bc.relevance_score, bc.added_date,
	       b.title, c.name
	FROM book_categories bc
	JOIN books b ON b.id = bc.book_id
	JOIN categories c ON c.id = bc.category_id
`

func scanBookCategoryDetails(rows pgx.Rows) ([]*models.BookCategoryDetail, error) {
	var links []*models.BookCategoryDetail
	for rows.Next() {
		detail := &models.BookCategoryDetail{}
		err := rows.Scan(&detail.ID, &detail.BookID, &detail.CategoryID, &detail.Primary,
			&detail.RelevanceScore, &detail.AddedDate, &detail.BookTitle, &detail.CategoryName)
		if err != nil {
			return nil, translateError(err)
		}
		links = append(links, detail)
	}
	return links, rows.Err()
}

func (r *bookCategoryRepo) List(ctx context.Context, limit, offset int) ([]*models.BookCategoryDetail, error) {
	query := bookCategoryDetailQuery + `
		ORDER BY bc."primary" DESC, bc.relevance_score DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()
	return scanBookCategoryDetails(rows)
}

func (r *bookCategoryRepo) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.BookCategoryDetail, error) {
	query := bookCategoryDetailQuery + `
		WHERE bc.book_id = $1
		ORDER BY bc."primary" DESC, bc.relevance_score DESC
	`
	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()
	return scanBookCategoryDetails(rows)
}

func (r *bookCategoryRepo) CountPrimaryTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, excludeID *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM book_categories WHERE book_id = $1 AND "primary" = TRUE`
	args := []interface{}{bookID}
	if excludeID != nil {
		query += ` AND id <> $2`
		args = append(args, *excludeID)
	}
	var count int
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
