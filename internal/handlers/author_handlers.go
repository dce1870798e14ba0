package handlers

import (
	"net/http"

	"bookmart/internal/common"
	"bookmart/internal/models"
	"bookmart/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthorHandlers handles author-related HTTP requests
type AuthorHandlers struct {
	authorService services.AuthorService
}

// NewAuthorHandlers creates a new author handlers instance
func NewAuthorHandlers(authorService services.AuthorService) *AuthorHandlers {
	return &AuthorHandlers{authorService: authorService}
}

// AuthorRequest represents the author create/update payload
type AuthorRequest struct {
	Name      string  `json:"name"`
	Biography *string `json:"biography"`
	BirthDate *string `json:"birth_date"`
}

func (r *AuthorRequest) toModel() (*models.Author, error) {
	author := &models.Author{
		Name:      r.Name,
		Biography: r.Biography,
	}
	if r.BirthDate != nil && *r.BirthDate != "" {
		birthDate, err := common.ParseDate(*r.BirthDate, "birth_date")
		if err != nil {
			return nil, err
		}
		author.BirthDate = &birthDate
	}
	return author, nil
}

// CreateAuthor handles creating a new author
func (h *AuthorHandlers) CreateAuthor(c echo.Context) error {
	ctx := c.Request().Context()

	var req AuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	author, err := req.toModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authorService.Create(ctx, author); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Author created successfully",
		"author":  author,
	})
}

// ListAuthorsRequest represents query parameters for listing authors
type ListAuthorsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListAuthors handles getting a list of authors
func (h *AuthorHandlers) ListAuthors(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListAuthorsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	authors, err := h.authorService.List(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"authors": authors,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetAuthor handles getting author details by ID
func (h *AuthorHandlers) GetAuthor(c echo.Context) error {
	ctx := c.Request().Context()

	authorID, err := common.ValidateUUID(c.Param("id"), "author ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	author, err := h.authorService.GetByID(ctx, authorID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, author)
}

// UpdateAuthor handles updating author details
func (h *AuthorHandlers) UpdateAuthor(c echo.Context) error {
	ctx := c.Request().Context()

	authorID, err := common.ValidateUUID(c.Param("id"), "author ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req AuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	author, err := req.toModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	author.ID = authorID

	if err := h.authorService.Update(ctx, author); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Author updated successfully",
		"author":  author,
	})
}

// DeleteAuthor handles deleting an author
func (h *AuthorHandlers) DeleteAuthor(c echo.Context) error {
	ctx := c.Request().Context()

	authorID, err := common.ValidateUUID(c.Param("id"), "author ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authorService.Delete(ctx, authorID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Author deleted successfully",
	})
}
