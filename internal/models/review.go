package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID           uuid.UUID `json:"id" db:"id"`
	BookID       uuid.UUID `json:"book_id" db:"book_id"`
	ReviewerName string    `json:"reviewer_name" db:"reviewer_name"`
	Content      string    `json:"content" db:"content"`
	Rating       int       `json:"rating" db:"rating"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewStats aggregates a book's reviews for the detail and list shapes.
type ReviewStats struct {
	ReviewCount   int      `json:"review_count"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}
