package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bookmart/internal/models"
	"bookmart/internal/repositories"
)

type AuthorService interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error)
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Author, error)
}

type authorService struct {
	authors repositories.AuthorRepository
}

func NewAuthorService(authors repositories.AuthorRepository) AuthorService {
	return &authorService{authors: authors}
}

func validateAuthorFields(author *models.Author) error {
	author.Name = strings.TrimSpace(author.Name)
	if author.Name == "" || len(author.Name) > 255 {
		return fmt.Errorf("%w: author name is required and must be at most 255 characters", models.ErrValidation)
	}
	return nil
}

func (s *authorService) Create(ctx context.Context, author *models.Author) error {
	if err := validateAuthorFields(author); err != nil {
		return err
	}
	author.ID = uuid.New()
	return s.authors.Create(ctx, author)
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	return s.authors.GetByID(ctx, id)
}

func (s *authorService) Update(ctx context.Context, author *models.Author) error {
	if err := validateAuthorFields(author); err != nil {
		return err
	}
	return s.authors.Update(ctx, author)
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.authors.Delete(ctx, id)
}

func (s *authorService) List(ctx context.Context, limit, offset int) ([]*models.Author, error) {
	return s.authors.List(ctx, limit, offset)
}
