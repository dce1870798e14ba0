package repositories

import (
	"context"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.Review, error)
	StatsByBook(ctx context.Context, bookID uuid.UUID) (*models.ReviewStats, error)
	Count(ctx context.Context) (int, error)
	GlobalAverageRating(ctx context.Context) (*float64, error)
}

type reviewRepo struct {
	db DB
}

func NewReviewRepo(db DB) ReviewRepository {
	return &reviewRepo{db: db}
}

const reviewColumns = `id, book_id, reviewer_name, content, rating, created_at, updated_at`

func scanReview(row pgx.Row) (*models.Review, error) {
	review := &models.Review{}
	err := row.Scan(&review.ID, &review.BookID, &review.ReviewerName, &review.Content,
		&review.Rating, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return review, nil
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, book_id, reviewer_name, content, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, review.ID, review.BookID, review.ReviewerName,
		review.Content, review.Rating)
	return translateError(err)
}

func (r *reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.db.QueryRow(ctx, query, id))
}

func (r *reviewRepo) Update(ctx context.Context, review *models.Review) error {
	query := `
		UPDATE reviews
		SET reviewer_name = $1, content = $2, rating = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, review.ReviewerName, review.Content, review.Rating, review.ID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *reviewRepo) List(ctx context.Context, limit, offset int) ([]*models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *reviewRepo) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE book_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *reviewRepo) StatsByBook(ctx context.Context, bookID uuid.UUID) (*models.ReviewStats, error) {
	stats := &models.ReviewStats{}
	query := `SELECT COUNT(*), AVG(rating)::float8 FROM reviews WHERE book_id = $1`
	err := r.db.QueryRow(ctx, query, bookID).Scan(&stats.ReviewCount, &stats.AverageRating)
	if err != nil {
		return nil, translateError(err)
	}
	return stats, nil
}

func (r *reviewRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *reviewRepo) GlobalAverageRating(ctx context.Context) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx, `SELECT AVG(rating)::float8 FROM reviews`).Scan(&avg)
	if err != nil {
		return nil, translateError(err)
	}
	return avg, nil
}
