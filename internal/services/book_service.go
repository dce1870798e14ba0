package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
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

type BookService interface {
	Create(ctx context.Context, book *models.Book, authorIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.BookDetail, error)
	// Update replaces the book's fields. A nil authorIDs slice leaves the
	// author links untouched; an empty one clears them.
	Update(ctx context.Context, book *models.Book, authorIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.BookSearchFilter) ([]*models.BookSummary, error)
	UploadCover(ctx context.Context, bookID uuid.UUID, filename, contentType string, reader io.Reader, size int64) error
	CoverURL(ctx context.Context, bookID uuid.UUID) (string, error)
	DeleteCover(ctx context.Context, bookID uuid.UUID) error
}

type bookService struct {
	books      repositories.BookRepository
	authors    repositories.AuthorRepository
	publishers repositories.PublisherRepository
	reviews    repositories.ReviewRepository
	links      repositories.BookCategoryRepository
	cache      caching.CacheService
	storage    MinioService
	bucket     string
}

func NewBookService(
	books repositories.BookRepository,
	authors repositories.AuthorRepository,
	publishers repositories.PublisherRepository,
	reviews repositories.ReviewRepository,
	links repositories.BookCategoryRepository,
	cache caching.CacheService,
	storage MinioService,
	bucket string,
) BookService {
	return &bookService{
		books:      books,
		authors:    authors,
		publishers: publishers,
		reviews:    reviews,
		links:      links,
		cache:      cache,
		storage:    storage,
		bucket:     bucket,
	}
}

var isbnRe = regexp.MustCompile(`^[0-9]{13}$`)

const (
	bookCacheTTL   = 15 * time.Minute
	coverURLExpiry = 24 * time.Hour
)

func validateBookFields(book *models.Book) error {
	book.Title = strings.TrimSpace(book.Title)
	if book.Title == "" || len(book.Title) > 255 {
		return fmt.Errorf("%w: title is required and must be at most 255 characters", models.ErrValidation)
	}
	book.Author = strings.TrimSpace(book.Author)
	if book.Author == "" || len(book.Author) > 255 {
		return fmt.Errorf("%w: author is required and must be at most 255 characters", models.ErrValidation)
	}
	if book.PublishedDate.IsZero() {
		return fmt.Errorf("%w: published date is required", models.ErrValidation)
	}
	if !isbnRe.MatchString(book.ISBN) {
		return fmt.Errorf("%w: ISBN must be exactly 13 digits", models.ErrValidation)
	}
	book.Genre = strings.TrimSpace(book.Genre)
	if book.Genre == "" || len(book.Genre) > 100 {
		return fmt.Errorf("%w: genre is required and must be at most 100 characters", models.ErrValidation)
	}
	if book.Language == "" {
		book.Language = models.DefaultLanguage
	}
	if !models.IsValidLanguage(book.Language) {
		return fmt.Errorf("%w: unsupported language code %q", models.ErrValidation, book.Language)
	}
	if book.Rating != nil && (*book.Rating < 0 || *book.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 0 and 5", models.ErrValidation)
	}
	if book.Price != nil && *book.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", models.ErrValidation)
	}
	if book.PageCount != nil && *book.PageCount < 1 {
		return fmt.Errorf("%w: page count must be at least 1", models.ErrValidation)
	}
	return nil
}

func (s *bookService) checkReferences(ctx context.Context, book *models.Book, authorIDs []uuid.UUID) error {
	if book.PublisherID != nil {
		if _, err := s.publishers.GetByID(ctx, *book.PublisherID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("%w: publisher does not exist", models.ErrValidation)
			}
			return err
		}
	}
	for _, authorID := range authorIDs {
		if _, err := s.authors.GetByID(ctx, authorID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("%w: author %s does not exist", models.ErrValidation, authorID)
			}
			return err
		}
	}
	return nil
}

func (s *bookService) Create(ctx context.Context, book *models.Book, authorIDs []uuid.UUID) error {
	if err := validateBookFields(book); err != nil {
		return err
	}

	byISBN, err := s.books.GetByISBN(ctx, book.ISBN)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if byISBN != nil {
		return models.ErrDuplicateISBN
	}

	byTitle, err := s.books.GetByTitleAndAuthor(ctx, book.Title, book.Author)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if byTitle != nil {
		return models.ErrDuplicateBook
	}

	if err := s.checkReferences(ctx, book, authorIDs); err != nil {
		return err
	}

	book.ID = uuid.New()
	if err := s.books.Create(ctx, book); err != nil {
		return err
	}
	if len(authorIDs) > 0 {
		if err := s.books.ReplaceAuthors(ctx, book.ID, authorIDs); err != nil {
			return err
		}
	}

	s.invalidateBook(ctx, book.ID)
	log.Info("book created",
		zap.String("book_id", book.ID.String()),
		zap.String("isbn", book.ISBN))
	return nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	cached, err := s.cache.GetBook(ctx, id)
	if err != nil {
		log.Warn("book cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetBook(ctx, book, bookCacheTTL); err != nil {
		log.Warn("book cache write failed", zap.Error(err))
	}
	return book, nil
}

func (s *bookService) GetDetail(ctx context.Context, id uuid.UUID) (*models.BookDetail, error) {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.BookDetail{Book: *book}
	detail.IsLongBook = book.PageCount != nil && *book.PageCount > 500

	if book.PublisherID != nil {
		publisher, err := s.publishers.GetByID(ctx, *book.PublisherID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		detail.Publisher = publisher
	}

	authors, err := s.books.ListAuthors(ctx, id)
	if err != nil {
		return nil, err
	}
	if authors == nil {
		authors = []*models.Author{}
	}
	detail.Authors = authors
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	detail.AuthorsDisplay = strings.Join(names, ", ")

	reviews, err := s.reviews.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	detail.Reviews = reviews

	stats, err := s.reviews.StatsByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.ReviewCount = stats.ReviewCount
	detail.AverageRating = stats.AverageRating

	categories, err := s.links.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*models.BookCategoryDetail{}
	}
	detail.Categories = categories

	return detail, nil
}

func (s *bookService) Update(ctx context.Context, book *models.Book, authorIDs []uuid.UUID) error {
	if err := validateBookFields(book); err != nil {
		return err
	}

	byISBN, err := s.books.GetByISBN(ctx, book.ISBN)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if byISBN != nil && byISBN.ID != book.ID {
		return models.ErrDuplicateISBN
	}

	byTitle, err := s.books.GetByTitleAndAuthor(ctx, book.Title, book.Author)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if byTitle != nil && byTitle.ID != book.ID {
		return models.ErrDuplicateBook
	}

	if err := s.checkReferences(ctx, book, authorIDs); err != nil {
		return err
	}

	if err := s.books.Update(ctx, book); err != nil {
		return err
	}
	if authorIDs != nil {
		if err := s.books.ReplaceAuthors(ctx, book.ID, authorIDs); err != nil {
			return err
		}
	}

	s.invalidateBook(ctx, book.ID)
	return nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}

	if book.CoverImage != nil {
		if err := s.storage.DeleteCover(ctx, s.bucket, *book.CoverImage); err != nil {
			log.Warn("failed to remove cover object", zap.String("object", *book.CoverImage), zap.Error(err))
		}
	}

	s.invalidateBook(ctx, id)
	log.Info("book deleted", zap.String("book_id", id.String()))
	return nil
}

func (s *bookService) List(ctx context.Context, filter *models.BookSearchFilter) ([]*models.BookSummary, error) {
	if filter.Language != nil && !models.IsValidLanguage(*filter.Language) {
		return nil, fmt.Errorf("%w: unsupported language code %q", models.ErrValidation, *filter.Language)
	}
	return s.books.List(ctx, filter)
}

func (s *bookService) UploadCover(ctx context.Context, bookID uuid.UUID, filename, contentType string, reader io.Reader, size int64) error {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return err
	}

	if err := s.storage.EnsureBucketExists(ctx, s.bucket); err != nil {
		return err
	}

	objectName := fmt.Sprintf("covers/%s%s", bookID.String(), strings.ToLower(filepath.Ext(filename)))
	if err := s.storage.UploadCover(ctx, s.bucket, objectName, reader, size, contentType); err != nil {
		return err
	}
	if err := s.books.SetCoverImage(ctx, bookID, &objectName); err != nil {
		return err
	}

	s.invalidateBook(ctx, bookID)
	log.Info("cover uploaded", zap.String("book_id", bookID.String()), zap.String("object", objectName))
	return nil
}

func (s *bookService) CoverURL(ctx context.Context, bookID uuid.UUID) (string, error) {
	book, err := s.GetByID(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book.CoverImage == nil {
		return "", fmt.Errorf("%w: book has no cover image", models.ErrNotFound)
	}
	return s.storage.GetPresignedURL(s.bucket, *book.CoverImage, coverURLExpiry)
}

func (s *bookService) DeleteCover(ctx context.Context, bookID uuid.UUID) error {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book.CoverImage == nil {
		return fmt.Errorf("%w: book has no cover image", models.ErrNotFound)
	}

	if err := s.storage.DeleteCover(ctx, s.bucket, *book.CoverImage); err != nil {
		return err
	}
	if err := s.books.SetCoverImage(ctx, bookID, nil); err != nil {
		return err
	}

	s.invalidateBook(ctx, bookID)
	return nil
}

func (s *bookService) invalidateBook(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteBook(ctx, id); err != nil {
		log.Warn("book cache invalidation failed", zap.String("book_id", id.String()), zap.Error(err))
	}
	if err := s.cache.DeleteCatalogStats(ctx); err != nil {
		log.Warn("catalog stats cache invalidation failed", zap.Error(err))
	}
}
