package repositories

import (
	"context"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error)
	GetByName(ctx context.Context, name string) (*models.Author, error)
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Author, error)
	Count(ctx context.Context) (int, error)
}

type authorRepo struct {
	db DB
}

func NewAuthorRepo(db DB) AuthorRepository {
	return &authorRepo{db: db}
}

const authorColumns = `id, name, biography, birth_date, created_at, updated_at`

func scanAuthor(row pgx.Row) (*models.Author, error) {
	author := &models.Author{}
	err := row.Scan(&author.ID, &author.Name, &author.Biography, &author.BirthDate,
		&author.CreatedAt, &author.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return author, nil
}

func (r *authorRepo) Create(ctx context.Context, author *models.Author) error {
	query := `
		INSERT INTO authors (id, name, biography, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, author.ID, author.Name, author.Biography, author.BirthDate)
	return translateError(err)
}

func (r *authorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`
	return scanAuthor(r.db.QueryRow(ctx, query, id))
}

func (r *authorRepo) GetByName(ctx context.Context, name string) (*models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE name = $1`
	return scanAuthor(r.db.QueryRow(ctx, query, name))
}

func (r *authorRepo) Update(ctx context.Context, author *models.Author) error {
	query := `
		UPDATE authors
		SET name = $1, biography = $2, birth_date = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, author.Name, author.Biography, author.BirthDate, author.ID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *authorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *authorRepo) List(ctx context.Context, limit, offset int) ([]*models.Author, error) {
	query := `
		SELECT ` + authorColumns + `
		FROM authors
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var authors []*models.Author
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, rows.Err()
}

func (r *authorRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
