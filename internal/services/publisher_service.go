package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bookmart/internal/models"
	"bookmart/internal/repositories"
)

type PublisherService interface {
	Create(ctx context.Context, publisher *models.Publisher) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Publisher, error)
	Update(ctx context.Context, publisher *models.Publisher) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Publisher, error)
}

type publisherService struct {
	publishers repositories.PublisherRepository
}

func NewPublisherService(publishers repositories.PublisherRepository) PublisherService {
	return &publisherService{publishers: publishers}
}

func validatePublisherFields(publisher *models.Publisher) error {
	publisher.Name = strings.TrimSpace(publisher.Name)
	if publisher.Name == "" || len(publisher.Name) > 255 {
		return fmt.Errorf("%w: publisher name is required and must be at most 255 characters", models.ErrValidation)
	}
	if publisher.Website != nil && *publisher.Website != "" {
		if !strings.HasPrefix(*publisher.Website, "http://") && !strings.HasPrefix(*publisher.Website, "https://") {
			return fmt.Errorf("%w: website must be an http or https URL", models.ErrValidation)
		}
	}
	return nil
}

func (s *publisherService) Create(ctx context.Context, publisher *models.Publisher) error {
	if err := validatePublisherFields(publisher); err != nil {
		return err
	}
	publisher.ID = uuid.New()
	return s.publishers.Create(ctx, publisher)
}

func (s *publisherService) GetByID(ctx context.Context, id uuid.UUID) (*models.Publisher, error) {
	return s.publishers.GetByID(ctx, id)
}

func (s *publisherService) Update(ctx context.Context, publisher *models.Publisher) error {
	if err := validatePublisherFields(publisher); err != nil {
		return err
	}
	return s.publishers.Update(ctx, publisher)
}

func (s *publisherService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.publishers.Delete(ctx, id)
}

func (s *publisherService) List(ctx context.Context, limit, offset int) ([]*models.Publisher, error) {
	return s.publishers.List(ctx, limit, offset)
}
