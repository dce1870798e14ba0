package repositories

import (
	"context"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PublisherRepository interface {
	Create(ctx context.Context, publisher *models.Publisher) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Publisher, error)
	GetByName(ctx context.Context, name string) (*models.Publisher, error)
	Update(ctx context.Context, publisher *models.Publisher) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Publisher, error)
	Count(ctx context.Context) (int, error)
}

type publisherRepo struct {
	db DB
}

func NewPublisherRepo(db DB) PublisherRepository {
	return &publisherRepo{db: db}
}

const publisherColumns = `id, name, website, address, created_at, updated_at`

func scanPublisher(row pgx.Row) (*models.Publisher, error) {
	publisher := &models.Publisher{}
	err := row.Scan(&publisher.ID, &publisher.Name, &publisher.Website, &publisher.Address,
		&publisher.CreatedAt, &publisher.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return publisher, nil
}

func (r *publisherRepo) Create(ctx context.Context, publisher *models.Publisher) error {
	query := `
		INSERT INTO publishers (id, name, website, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, publisher.ID, publisher.Name, publisher.Website, publisher.Address)
	return translateError(err)
}

func (r *publisherRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Publisher, error) {
	query := `SELECT ` + publisherColumns + ` FROM publishers WHERE id = $1`
	return scanPublisher(r.db.QueryRow(ctx, query, id))
}

func (r *publisherRepo) GetByName(ctx context.Context, name string) (*models.Publisher, error) {
	query := `SELECT ` + publisherColumns + ` FROM publishers WHERE name = $1`
	return scanPublisher(r.db.QueryRow(ctx, query, name))
}

func (r *publisherRepo) Update(ctx context.Context, publisher *models.Publisher) error {
	query := `
		UPDATE publishers
		SET name = $1, website = $2, address = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, publisher.Name, publisher.Website, publisher.Address, publisher.ID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *publisherRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM publishers WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *publisherRepo) List(ctx context.Context, limit, offset int) ([]*models.Publisher, error) {
	query := `
		SELECT ` + publisherColumns + `
		FROM publishers
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var publishers []*models.Publisher
	for rows.Next() {
		publisher, err := scanPublisher(rows)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, publisher)
	}
	return publishers, rows.Err()
}

func (r *publisherRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM publishers`).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
