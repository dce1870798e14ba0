package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bookmart/internal/models"
)

// translateError maps driver errors onto the domain sentinels. Unique
// violations are matched by constraint name so callers can report which rule
// was broken; any other integrity error (class 23) collapses into
// ErrConstraintViolation.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "categories_slug_key":
			return models.ErrDuplicateSlug
		case "books_isbn_key":
			return models.ErrDuplicateISBN
		case "unique_book":
			return models.ErrDuplicateBook
		case "book_categories_book_id_category_id_key":
			return models.ErrDuplicateAssociation
		}
		return models.ErrConstraintViolation
	}
	if strings.HasPrefix(pgErr.Code, "23") {
		return models.ErrConstraintViolation
	}
	return err
}
