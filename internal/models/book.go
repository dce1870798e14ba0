package models

import (
	"time"

	"github.com/google/uuid"
)

// SupportedLanguages lists the ISO-style codes a book may carry.
var SupportedLanguages = []string{"EN", "FR", "ES", "DE", "ZH", "JA", "AR"}

// DefaultLanguage is assumed when a book is created without a language.
const DefaultLanguage = "EN"

func IsValidLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

type Book struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Author        string     `json:"author" db:"author"`
	PublishedDate time.Time  `json:"published_date" db:"published_date"`
	ISBN          string     `json:"isbn" db:"isbn"`
	Genre         string     `json:"genre" db:"genre"`
	Summary       *string    `json:"summary,omitempty" db:"summary"`
	PublisherID   *uuid.UUID `json:"publisher_id,omitempty" db:"publisher_id"`
	PageCount     *int       `json:"page_count,omitempty" db:"page_count"`
	Language      string     `json:"language" db:"language"`
	Price         *float64   `json:"price,omitempty" db:"price"`
	CoverImage    *string    `json:"cover_image,omitempty" db:"cover_image"`
	Rating        *float64   `json:"rating,omitempty" db:"rating"`
	IsBestseller  bool       `json:"is_bestseller" db:"is_bestseller"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// BookSummary is the list read shape. The derived fields are computed by the
// repository in the list query itself.
type BookSummary struct {
	Book
	AuthorsDisplay string   `json:"authors_display"`
	PublisherName  *string  `json:"publisher_name,omitempty"`
	ReviewCount    int      `json:"review_count"`
	AverageRating  *float64 `json:"average_rating,omitempty"`
	IsLongBook     bool     `json:"is_long_book"`
}

// BookDetail is the single-book read shape with related rows expanded.
type BookDetail struct {
	Book
	Publisher      *Publisher            `json:"publisher,omitempty"`
	Authors        []*Author             `json:"authors"`
	Reviews        []*Review             `json:"reviews"`
	Categories     []*BookCategoryDetail `json:"categories"`
	AuthorsDisplay string                `json:"authors_display"`
	ReviewCount    int                   `json:"review_count"`
	AverageRating  *float64              `json:"average_rating,omitempty"`
	IsLongBook     bool                  `json:"is_long_book"`
}

// BookSearchFilter drives list and search queries. Zero values mean the
// filter is not applied.
type BookSearchFilter struct {
	Query        string     `json:"query,omitempty"`
	Genre        *string    `json:"genre,omitempty"`
	Language     *string    `json:"language,omitempty"`
	PublisherID  *uuid.UUID `json:"publisher_id,omitempty"`
	IsBestseller *bool      `json:"is_bestseller,omitempty"`
	MinRating    *float64   `json:"min_rating,omitempty"`
	MaxPrice     *float64   `json:"max_price,omitempty"`
	SortBy       string     `json:"sort_by,omitempty"`
	SortOrder    string     `json:"sort_order,omitempty"`
	Limit        int        `json:"limit,omitempty"`
	Offset       int        `json:"offset,omitempty"`
}
