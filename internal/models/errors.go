package models

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these to
// HTTP status codes with errors.Is, so services wrap them with %w when they
// need to add detail.
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")

	// Category tree violations.
	ErrSelfParent          = errors.New("category cannot be its own parent")
	ErrCyclicReference     = errors.New("category parent assignment would create a circular reference")
	ErrActiveChildrenExist = errors.New("category has active subcategories and cannot be deactivated")
	ErrParentNotFound      = errors.New("parent category not found")

	// Primary category rule.
	ErrMultiplePrimaryCategories = errors.New("book already has a primary category")

	// Duplicate rows surfaced either by pre-checks or by unique constraints.
	ErrDuplicateSlug        = errors.New("category slug already in use")
	ErrDuplicateISBN        = errors.New("book with this ISBN already exists")
	ErrDuplicateBook        = errors.New("book with this title and author already exists")
	ErrDuplicateAssociation = errors.New("book is already linked to this category")

	// ErrConstraintViolation covers integrity errors that no descriptive
	// sentinel claims, including the partial unique index on primary
	// categories. Reaching it means a write slipped past service validation.
	ErrConstraintViolation = errors.New("storage constraint violation")
)
