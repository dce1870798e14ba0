package handlers

import (
	"net/http"

	"bookmart/internal/common"
	"bookmart/internal/models"
	"bookmart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BookHandlers handles book-related HTTP requests
type BookHandlers struct {
	bookService         services.BookService
	reviewService       services.ReviewService
	bookCategoryService services.BookCategoryService
}

// NewBookHandlers creates a new book handlers instance
func NewBookHandlers(
	bookService services.BookService,
	reviewService services.ReviewService,
	bookCategoryService services.BookCategoryService,
) *BookHandlers {
	return &BookHandlers{
		bookService:         bookService,
		reviewService:       reviewService,
		bookCategoryService: bookCategoryService,
	}
}

// BookRequest represents the book create/update payload
type BookRequest struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"published_date"`
	ISBN          string   `json:"isbn"`
	Genre         string   `json:"genre"`
	Summary       *string  `json:"summary"`
	PublisherID   *string  `json:"publisher_id"`
	PageCount     *int     `json:"page_count"`
	Language      string   `json:"language"`
	Price         *float64 `json:"price"`
	Rating        *float64 `json:"rating"`
	IsBestseller  bool     `json:"is_bestseller"`
	AuthorIDs     []string `json:"author_ids"`
}

func (r *BookRequest) toModel() (*models.Book, []uuid.UUID, error) {
	publishedDate, err := common.ParseDate(r.PublishedDate, "published_date")
	if err != nil {
		return nil, nil, err
	}

	book := &models.Book{
		Title:         r.Title,
		Author:        r.Author,
		PublishedDate: publishedDate,
		ISBN:          r.ISBN,
		Genre:         r.Genre,
		Summary:       r.Summary,
		PageCount:     r.PageCount,
		Language:      r.Language,
		Price:         r.Price,
		Rating:        r.Rating,
		IsBestseller:  r.IsBestseller,
	}
	if common.SafeString(r.PublisherID) != "" {
		publisherID, err := common.ValidateUUID(common.SafeString(r.PublisherID), "publisher_id")
		if err != nil {
			return nil, nil, err
		}
		book.PublisherID = &publisherID
	}

	var authorIDs []uuid.UUID
	if r.AuthorIDs != nil {
		authorIDs = make([]uuid.UUID, 0, len(r.AuthorIDs))
		for _, idStr := range r.AuthorIDs {
			authorID, err := common.ValidateUUID(idStr, "author_ids")
			if err != nil {
				return nil, nil, err
			}
			authorIDs = append(authorIDs, authorID)
		}
	}
	return book, authorIDs, nil
}

// CreateBook handles creating a new book
//
//	@Summary	Create a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		book	body		BookRequest	true	"Book payload"
//	@Success	201		{object}	map[string]interface{}
//	@Failure	400,409	{object}	common.ErrorResponse
//	@Router		/books [post]
func (h *BookHandlers) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	book, authorIDs, err := req.toModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.bookService.Create(ctx, book, authorIDs); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Book created successfully",
		"book":    book,
	})
}

// ListBooksRequest represents query parameters for listing and searching books
type ListBooksRequest struct {
	Query       string   `query:"q"`
	Genre       string   `query:"genre"`
	Language    string   `query:"language"`
	PublisherID string   `query:"publisher_id"`
	Bestseller  *bool    `query:"bestseller"`
	MinRating   *float64 `query:"min_rating"`
	MaxPrice    *float64 `query:"max_price"`
	SortBy      string   `query:"sort_by"`
	SortOrder   string   `query:"sort_order"`
	Limit       int      `query:"limit"`
	Offset      int      `query:"offset"`
}

func (r *ListBooksRequest) toFilter() (*models.BookSearchFilter, error) {
	limit, offset := common.ValidatePaginationParams(r.Limit, r.Offset)
	filter := &models.BookSearchFilter{
		Query:        r.Query,
		IsBestseller: r.Bestseller,
		MinRating:    r.MinRating,
		MaxPrice:     r.MaxPrice,
		SortBy:       r.SortBy,
		SortOrder:    r.SortOrder,
		Limit:        limit,
		Offset:       offset,
	}
	if r.Genre != "" {
		filter.Genre = &r.Genre
	}
	if r.Language != "" {
		filter.Language = &r.Language
	}
	if r.PublisherID != "" {
		publisherID, err := common.ValidateUUID(r.PublisherID, "publisher_id")
		if err != nil {
			return nil, err
		}
		filter.PublisherID = &publisherID
	}
	return filter, nil
}

// ListBooks handles getting a filtered list of books
//
//	@Summary	List and search books
//	@Tags		books
//	@Produce	json
//	@Param		q			query		string	false	"Search in title, author and summary"
//	@Param		genre		query		string	false	"Filter by genre"
//	@Param		language	query		string	false	"Filter by language code"
//	@Param		publisher_id	query	string	false	"Filter by publisher"
//	@Param		bestseller	query		bool	false	"Filter by bestseller flag"
//	@Param		min_rating	query		number	false	"Minimum rating"
//	@Param		max_price	query		number	false	"Maximum price"
//	@Param		sort_by		query		string	false	"Sort field (title, published_date, rating, price)"
//	@Param		sort_order	query		string	false	"asc or desc"
//	@Param		limit		query		int		false	"Page size"
//	@Param		offset		query		int		false	"Page offset"
//	@Success	200			{object}	map[string]interface{}
//	@Failure	400			{object}	common.ErrorResponse
//	@Router		/books [get]
func (h *BookHandlers) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListBooksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	filter, err := req.toFilter()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	books, err := h.bookService.List(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"books":  books,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetBook handles getting book details by ID
//
//	@Summary	Get a book with its related data
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"Book ID"
//	@Success	200	{object}	models.BookDetail
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/books/{id} [get]
func (h *BookHandlers) GetBook(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := common.ValidateUUID(c.Param("id"), "book ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookService.GetDetail(ctx, bookID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, book)
}

// UpdateBook handles updating book details
//
//	@Summary	Update a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"Book ID"
//	@Param		book	body		BookRequest	true	"Book payload"
//	@Success	200		{object}	map[string]interface{}
//	@Failure	400,404,409	{object}	common.ErrorResponse
//	@Router		/books/{id} [put]
func (h *BookHandlers) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := common.ValidateUUID(c.Param("id"), "book ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	book, authorIDs, err := req.toModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book.ID = bookID

	if err := h.bookService.Update(ctx, book, authorIDs); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Book updated successfully",
		"book":    book,
	})
}

// DeleteBook handles deleting a book
//
//	@Summary	Delete a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"Book ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/books/{id} [delete]
func (h *BookHandlers) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := common.ValidateUUID(c.Param("id"), "book ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.bookService.Delete(ctx, bookID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Book deleted successfully",
	})
}

// UploadBookCover handles uploading a cover image for a book
//
//	@Summary	Upload a book cover
//	@Tags		books
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"Book ID"
//	@Param		cover	formData	file	true	"Cover image (max 5MB)"
//	@Success	201		{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/books/{id}/cover [post]
func (h *BookHandlers) UploadBookCover(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := common.ValidateUUID(c.Param("id"), "book ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("cover")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cover file is required")
	}

	// Validate file size (5MB limit)
	const maxFileSize = 5 * 1024 * 1024 // 5MB in bytes
	if file.Size > maxFileSize {
		return echo.NewHTTPError(http.StatusBadRequest, "File size exceeds maximum limit of 5MB")
	}

	allowedTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open cover file")
	}
	defer src.Close()

	// Read first 512 bytes to detect content type
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read file content")
	}
	contentType := http.DetectContentType(buffer)

	if !allowedTypes[contentType] {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid file type. Only JPEG, PNG, GIF, and WebP images are allowed")
	}

	// Reset file pointer to beginning for re-reading
	src.Seek(0, 0)

	if err := h.bookService.UploadCover(ctx, bookID, file.Filename, contentType, src, file.Size); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Cover uploaded successfully",
	})
}

// GetBookCover handles getting a presigned URL for a book's cover
//
//	@Summary	Get a presigned cover URL
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"Book ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/books/{id}/cover [get]
func (h *BookHandlers) GetBookCover(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := common.ValidateUUID(c.Param("id"), "book ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	url, err := h.bookService.CoverURL(ctx, bookID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"book_id": bookID.String(),
		"url":     url,
	})
}

// DeleteBookCover handles removing a book's cover image
//
//	@Summary	Delete a book cover
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"Book ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/books/{id}/cover [delete]
func (h *BookHandlers) DeleteBookCover(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := common.ValidateUUID(c.Param("id"), "book ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.bookService.DeleteCover(ctx, bookID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Cover deleted successfully",
	})
}

// GetBookReviews handles listing all reviews written for a book
//
//	@Summary	List a book's reviews
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"Book ID"
//	@Success	200	{object}	map[string]interface{}
//	@Failure	400	{object}	common.ErrorResponse
//	@Router		/books/{id}/reviews [get]
func (h *BookHandlers) GetBookReviews(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := common.ValidateUUID(c.Param("id"), "book ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reviews, err := h.reviewService.ListByBook(ctx, bookID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"book_id": bookID.String(),
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// GetBookCategories handles listing a book's category links
//
//	@Summary	List a book's categories
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"Book ID"
//	@Success	200	{object}	map[string]interface{}
//	@Failure	400	{object}	common.ErrorResponse
//	@Router		/books/{id}/categories [get]
func (h *BookHandlers) GetBookCategories(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := common.ValidateUUID(c.Param("id"), "book ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	categories, err := h.bookCategoryService.ListByBook(ctx, bookID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"book_id":    bookID.String(),
		"categories": categories,
		"count":      len(categories),
	})
}
