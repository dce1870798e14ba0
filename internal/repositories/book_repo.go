package repositories

import (
	"context"
	"fmt"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)
	GetByTitleAndAuthor(ctx context.Context, title, author string) (*models.Book, error)
	// GetForUpdateTx locks the book row inside tx. Category link writers take
	// this lock first so only one of them can touch a book's links at a time.
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.BookSearchFilter) ([]*models.BookSummary, error)
	SetCoverImage(ctx context.Context, id uuid.UUID, objectKey *string) error
	ReplaceAuthors(ctx context.Context, bookID uuid.UUID, authorIDs []uuid.UUID) error
	ListAuthors(ctx context.Context, bookID uuid.UUID) ([]*models.Author, error)
	Count(ctx context.Context) (int, error)
	CountBestsellers(ctx context.Context) (int, error)
	CountByLanguage(ctx context.Context) (map[string]int, error)
	CategoryDistribution(ctx context.Context) (map[string]int, error)
}

type bookRepo struct {
	db DB
}

func NewBookRepo(db DB) BookRepository {
	return &bookRepo{db: db}
}

const bookColumns = `id, title, author, published_date, isbn, genre, summary, publisher_id, page_count, language, price, cover_image, rating, is_bestseller, created_at, updated_at`

func scanBook(row pgx.Row) (*models.Book, error) {
	book := &models.Book{}
	err := row.Scan(&book.ID, &book.Title, &book.Author, &book.PublishedDate, &book.ISBN,
		&book.Genre, &book.Summary, &book.PublisherID, &book.PageCount, &book.Language,
		&book.Price, &book.CoverImage, &book.Rating, &book.IsBestseller,
		&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return book, nil
}

func (r *bookRepo) Create(ctx context.Context, book *models.Book) error {
	query := `
		INSERT INTO books (id, title, author, published_date, isbn, genre, summary, publisher_id, page_count, language, price, cover_image, rating, is_bestseller, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, book.ID, book.Title, book.Author, book.PublishedDate,
		book.ISBN, book.Genre, book.Summary, book.PublisherID, book.PageCount,
		book.Language, book.Price, book.CoverImage, book.Rating, book.IsBestseller)
	return translateError(err)
}

func (r *bookRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	return scanBook(r.db.QueryRow(ctx, query, id))
}

func (r *bookRepo) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`
	return scanBook(r.db.QueryRow(ctx, query, isbn))
}

func (r *bookRepo) GetByTitleAndAuthor(ctx context.Context, title, author string) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE title = $1 AND author = $2`
	return scanBook(r.db.QueryRow(ctx, query, title, author))
}

func (r *bookRepo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 FOR UPDATE`
	return scanBook(tx.QueryRow(ctx, query, id))
}

func (r *bookRepo) Update(ctx context.Context, book *models.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, published_date = $3, isbn = $4, genre = $5, summary = $6,
		    publisher_id = $7, page_count = $8, language = $9, price = $10, rating = $11,
		    is_bestseller = $12, updated_at = NOW()
		WHERE id = $13
	`
	tag, err := r.db.Exec(ctx, query, book.Title, book.Author, book.PublishedDate, book.ISBN,
		book.Genre, book.Summary, book.PublisherID, book.PageCount, book.Language,
		book.Price, book.Rating, book.IsBestseller, book.ID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *bookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

var validBookSortFields = map[string]bool{
	"title":          true,
	"author":         true,
	"published_date": true,
	"rating":         true,
	"price":          true,
	"page_count":     true,
	"created_at":     true,
}

// List runs the filtered catalog query. The derived columns (authors_display,
// publisher_name, review counts) are computed in SQL so listing stays a
// single round trip.
func (r *bookRepo) List(ctx context.Context, filter *models.BookSearchFilter) ([]*models.BookSummary, error) {
	query := `
		SELECT b.id, b.title, b.author, b.published_date, b.isbn, b.genre, b.summary,
		       b.publisher_id, b.page_count, b.language, b.price, b.cover_image, b.rating,
		       b.is_bestseller, b.created_at, b.updated_at,
		       COALESCE((SELECT STRING_AGG(a.name, ', ' ORDER BY a.name)
		                 FROM authors a JOIN book_authors ba ON ba.author_id = a.id
		                 WHERE ba.book_id = b.id), '') AS authors_display,
		       p.name AS publisher_name,
		       (SELECT COUNT(*) FROM reviews rv WHERE rv.book_id = b.id) AS review_count,
		       (SELECT AVG(rv.rating)::float8 FROM reviews rv WHERE rv.book_id = b.id) AS average_rating
		FROM books b
		LEFT JOIN publishers p ON p.id = b.publisher_id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 0

	if filter.Query != "" {
		argCount++
		query += fmt.Sprintf(" AND (b.title ILIKE $%d OR b.author ILIKE $%d OR b.isbn ILIKE $%d OR b.genre ILIKE $%d)",
			argCount, argCount, argCount, argCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Genre != nil {
		argCount++
		query += fmt.Sprintf(" AND b.genre ILIKE $%d", argCount)
		args = append(args, *filter.Genre)
	}
	if filter.Language != nil {
		argCount++
		query += fmt.Sprintf(" AND b.language = $%d", argCount)
		args = append(args, *filter.Language)
	}
	if filter.PublisherID != nil {
		argCount++
		query += fmt.Sprintf(" AND b.publisher_id = $%d", argCount)
		args = append(args, *filter.PublisherID)
	}
	if filter.IsBestseller != nil {
		argCount++
		query += fmt.Sprintf(" AND b.is_bestseller = $%d", argCount)
		args = append(args, *filter.IsBestseller)
	}
	if filter.MinRating != nil {
		argCount++
		query += fmt.Sprintf(" AND b.rating >= $%d", argCount)
		args = append(args, *filter.MinRating)
	}
	if filter.MaxPrice != nil {
		argCount++
		query += fmt.Sprintf(" AND b.price <= $%d", argCount)
		args = append(args, *filter.MaxPrice)
	}

	sortBy := "title"
	if filter.SortBy != "" && validBookSortFields[filter.SortBy] {
		sortBy = filter.SortBy
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY b.%s %s", sortBy, sortOrder)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	argCount++
	query += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, limit)

	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var books []*models.BookSummary
	for rows.Next() {
		summary := &models.BookSummary{}
		err := rows.Scan(&summary.ID, &summary.Title, &summary.Author, &summary.PublishedDate,
			&summary.ISBN, &summary.Genre, &summary.Summary, &summary.PublisherID,
			&summary.PageCount, &summary.Language, &summary.Price, &summary.CoverImage,
			&summary.Rating, &summary.IsBestseller, &summary.CreatedAt, &summary.UpdatedAt,
			&summary.AuthorsDisplay, &summary.PublisherName, &summary.ReviewCount, &summary.AverageRating)
		if err != nil {
			return nil, translateError(err)
		}
		summary.IsLongBook = summary.PageCount != nil && *summary.PageCount > 500
		books = append(books, summary)
	}
	return books, rows.Err()
}

func (r *bookRepo) SetCoverImage(ctx context.Context, id uuid.UUID, objectKey *string) error {
	query := `UPDATE books SET cover_image = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, objectKey, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ReplaceAuthors swaps the book's author links for the given set in one
// transaction.
func (r *bookRepo) ReplaceAuthors(ctx context.Context, bookID uuid.UUID, authorIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, bookID); err != nil {
		return translateError(err)
	}
	for _, authorID := range authorIDs {
		_, err := tx.Exec(ctx, `INSERT INTO book_authors (id, book_id, author_id) VALUES ($1, $2, $3)`,
			uuid.New(), bookID, authorID)
		if err != nil {
			return translateError(err)
		}
	}
	return translateError(tx.Commit(ctx))
}

func (r *bookRepo) ListAuthors(ctx context.Context, bookID uuid.UUID) ([]*models.Author, error) {
	query := `
		SELECT a.id, a.name, a.biography, a.birth_date, a.created_at, a.updated_at
		FROM authors a
		JOIN book_authors ba ON ba.author_id = a.id
		WHERE ba.book_id = $1
		ORDER BY a.name ASC
	`
	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var authors []*models.Author
	for rows.Next() {
		author := &models.Author{}
		err := rows.Scan(&author.ID, &author.Name, &author.Biography, &author.BirthDate,
			&author.CreatedAt, &author.UpdatedAt)
		if err != nil {
			return nil, translateError(err)
		}
		authors = append(authors, author)
	}
	return authors, rows.Err()
}

func (r *bookRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *bookRepo) CountBestsellers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE is_bestseller = TRUE`).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *bookRepo) CountByLanguage(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT language, COUNT(*) FROM books GROUP BY language`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var language string
		var count int
		if err := rows.Scan(&language, &count); err != nil {
			return nil, translateError(err)
		}
		counts[language] = count
	}
	return counts, rows.Err()
}

func (r *bookRepo) CategoryDistribution(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT c.name, COUNT(bc.book_id)
		FROM categories c
		JOIN book_categories bc ON bc.category_id = c.id
		GROUP BY c.name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, translateError(err)
		}
		counts[name] = count
	}
	return counts, rows.Err()
}
