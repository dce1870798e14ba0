package handlers

import (
	"net/http"

	"bookmart/internal/common"
	"bookmart/internal/models"
	"bookmart/internal/services"

	"github.com/labstack/echo/v4"
)

// ReviewHandlers handles review-related HTTP requests
type ReviewHandlers struct {
	reviewService services.ReviewService
}

// NewReviewHandlers creates a new review handlers instance
func NewReviewHandlers(reviewService services.ReviewService) *ReviewHandlers {
	return &ReviewHandlers{reviewService: reviewService}
}

// CreateReviewRequest represents the review creation payload
type CreateReviewRequest struct {
	BookID       string `json:"book_id"`
	ReviewerName string `json:"reviewer_name"`
	Content      string `json:"content"`
	Rating       int    `json:"rating"`
}

// CreateReview handles creating a new review
func (h *ReviewHandlers) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	bookID, err := common.ValidateUUID(req.BookID, "book_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review := &models.Review{
		BookID:       bookID,
		ReviewerName: req.ReviewerName,
		Content:      req.Content,
		Rating:       req.Rating,
	}

	if err := h.reviewService.Create(ctx, review); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Review created successfully",
		"review":  review,
	})
}

// ListReviewsRequest represents query parameters for listing reviews
type ListReviewsRequest struct {
	BookID string `query:"book_id"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListReviews handles getting reviews, optionally filtered by book
func (h *ReviewHandlers) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListReviewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	if req.BookID != "" {
		bookID, err := common.ValidateUUID(req.BookID, "book_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		reviews, err := h.reviewService.ListByBook(ctx, bookID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"reviews": reviews,
			"book_id": bookID.String(),
		})
	}

	reviews, err := h.reviewService.List(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetReview handles getting review details by ID
func (h *ReviewHandlers) GetReview(c echo.Context) error {
	ctx := c.Request().Context()

	reviewID, err := common.ValidateUUID(c.Param("id"), "review ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.GetByID(ctx, reviewID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, review)
}

// UpdateReviewRequest represents the review update payload. A review stays
// attached to the book it was written for.
type UpdateReviewRequest struct {
	ReviewerName string `json:"reviewer_name"`
	Content      string `json:"content"`
	Rating       int    `json:"rating"`
}

// UpdateReview handles updating review details
func (h *ReviewHandlers) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()

	reviewID, err := common.ValidateUUID(c.Param("id"), "review ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	review := &models.Review{
		ID:           reviewID,
		ReviewerName: req.ReviewerName,
		Content:      req.Content,
		Rating:       req.Rating,
	}

	if err := h.reviewService.Update(ctx, review); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Review updated successfully",
	})
}

// DeleteReview handles deleting a review
func (h *ReviewHandlers) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()

	reviewID, err := common.ValidateUUID(c.Param("id"), "review ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.reviewService.Delete(ctx, reviewID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Review deleted successfully",
	})
}
