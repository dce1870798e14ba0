package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the catalog's category forest. ParentID is nil for
// root categories.
type Category struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Description  *string    `json:"description,omitempty" db:"description"`
	Slug         string     `json:"slug" db:"slug"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	DisplayOrder int        `json:"display_order" db:"display_order"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// CategoryDetail is the single-category read shape with derived fields.
type CategoryDetail struct {
	Category
	ParentName       *string `json:"parent_name,omitempty"`
	SubcategoryCount int     `json:"subcategory_count"`
	FullPath         string  `json:"full_path"`
}
