package handlers

import (
	"net/http"

	"bookmart/internal/common"
	"bookmart/internal/models"
	"bookmart/internal/services"

	"github.com/labstack/echo/v4"
)

// BookCategoryHandlers handles book-category link HTTP requests
type BookCategoryHandlers struct {
	bookCategoryService services.BookCategoryService
}

// NewBookCategoryHandlers creates a new book-category handlers instance
func NewBookCategoryHandlers(bookCategoryService services.BookCategoryService) *BookCategoryHandlers {
	return &BookCategoryHandlers{bookCategoryService: bookCategoryService}
}

// CreateBookCategoryRequest represents the link creation payload.
// RelevanceScore defaults to 5 when omitted, mirroring the column default.
type CreateBookCategoryRequest struct {
	BookID         string   `json:"book_id"`
	CategoryID     string   `json:"category_id"`
	Primary        bool     `json:"primary"`
	RelevanceScore *float64 `json:"relevance_score"`
}

// CreateBookCategory handles linking a book to a category. At most one link
// per book may be primary.
//
//	@Summary	Link a book to a category
//	@Tags		book-categories
//	@Accept		json
//	@Produce	json
//	@Param		book_category	body		CreateBookCategoryRequest	true	"Link payload"
//	@Success	201				{object}	map[string]interface{}
//	@Failure	400,404,409		{object}	common.ErrorResponse
//	@Router		/book-categories [post]
func (h *BookCategoryHandlers) CreateBookCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateBookCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	bookID, err := common.ValidateUUID(req.BookID, "book_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	categoryID, err := common.ValidateUUID(req.CategoryID, "category_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	link := &models.BookCategory{
		BookID:         bookID,
		CategoryID:     categoryID,
		Primary:        req.Primary,
		RelevanceScore: 5,
	}
	if req.RelevanceScore != nil {
		link.RelevanceScore = *req.RelevanceScore
	}

	if err := h.bookCategoryService.Create(ctx, link); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":       "Book category created successfully",
		"book_category": link,
	})
}

// ListBookCategoriesRequest represents query parameters for listing links
type ListBookCategoriesRequest struct {
	BookID string `query:"book_id"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListBookCategories handles getting book-category links, optionally
// filtered by book
//
//	@Summary	List book-category links
//	@Tags		book-categories
//	@Produce	json
//	@Param		book_id	query		string	false	"Filter by book"
//	@Param		limit	query		int		false	"Page size"
//	@Param		offset	query		int		false	"Page offset"
//	@Success	200		{object}	map[string]interface{}
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/book-categories [get]
func (h *BookCategoryHandlers) ListBookCategories(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListBookCategoriesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	if req.BookID != "" {
		bookID, err := common.ValidateUUID(req.BookID, "book_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		links, err := h.bookCategoryService.ListByBook(ctx, bookID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"book_categories": links,
			"book_id":         bookID.String(),
		})
	}

	links, err := h.bookCategoryService.List(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"book_categories": links,
		"limit":           limit,
		"offset":          offset,
	})
}

// GetBookCategory handles getting link details by ID
//
//	@Summary	Get a book-category link
//	@Tags		book-categories
//	@Produce	json
//	@Param		id	path		string	true	"Link ID"
//	@Success	200	{object}	models.BookCategoryDetail
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/book-categories/{id} [get]
func (h *BookCategoryHandlers) GetBookCategory(c echo.Context) error {
	ctx := c.Request().Context()

	linkID, err := common.ValidateUUID(c.Param("id"), "book category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	link, err := h.bookCategoryService.GetByID(ctx, linkID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, link)
}

// UpdateBookCategoryRequest represents the link update payload. The book and
// category of a link are fixed at creation.
type UpdateBookCategoryRequest struct {
	Primary        bool     `json:"primary"`
	RelevanceScore *float64 `json:"relevance_score"`
}

// UpdateBookCategory handles updating a link's primary flag and relevance
//
//	@Summary	Update a book-category link
//	@Tags		book-categories
//	@Accept		json
//	@Produce	json
//	@Param		id				path		string						true	"Link ID"
//	@Param		book_category	body		UpdateBookCategoryRequest	true	"Link payload"
//	@Success	200				{object}	map[string]string
//	@Failure	400,404,409		{object}	common.ErrorResponse
//	@Router		/book-categories/{id} [put]
func (h *BookCategoryHandlers) UpdateBookCategory(c echo.Context) error {
	ctx := c.Request().Context()

	linkID, err := common.ValidateUUID(c.Param("id"), "book category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateBookCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	link := &models.BookCategory{
		ID:             linkID,
		Primary:        req.Primary,
		RelevanceScore: 5,
	}
	if req.RelevanceScore != nil {
		link.RelevanceScore = *req.RelevanceScore
	}

	if err := h.bookCategoryService.Update(ctx, link); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Book category updated successfully",
	})
}

// DeleteBookCategory handles removing a book-category link
//
//	@Summary	Delete a book-category link
//	@Tags		book-categories
//	@Produce	json
//	@Param		id	path		string	true	"Link ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/book-categories/{id} [delete]
func (h *BookCategoryHandlers) DeleteBookCategory(c echo.Context) error {
	ctx := c.Request().Context()

	linkID, err := common.ValidateUUID(c.Param("id"), "book category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.bookCategoryService.Delete(ctx, linkID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Book category deleted successfully",
	})
}
