package models

import (
	"time"

	"github.com/google/uuid"
)

// BookCategory links a book to a category. At most one link per book may be
// primary, which the service enforces transactionally and a partial unique
// index backstops.
type BookCategory struct {
	ID             uuid.UUID `json:"id" db:"id"`
	BookID         uuid.UUID `json:"book_id" db:"book_id"`
	CategoryID     uuid.UUID `json:"category_id" db:"category_id"`
	Primary        bool      `json:"primary" db:"primary"`
	RelevanceScore float64   `json:"relevance_score" db:"relevance_score"`
	AddedDate      time.Time `json:"added_date" db:"added_date"`
}

// BookCategoryDetail adds the joined display names.
type BookCategoryDetail struct {
	BookCategory
	BookTitle    string `json:"book_title"`
	CategoryName string `json:"category_name"`
}
