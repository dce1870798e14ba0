package handlers

import (
	"net/http"

	"bookmart/internal/common"
	"bookmart/internal/models"
	"bookmart/internal/services"

	"github.com/labstack/echo/v4"
)

// PublisherHandlers handles publisher-related HTTP requests
type PublisherHandlers struct {
	publisherService services.PublisherService
}

// NewPublisherHandlers creates a new publisher handlers instance
func NewPublisherHandlers(publisherService services.PublisherService) *PublisherHandlers {
	return &PublisherHandlers{publisherService: publisherService}
}

// PublisherRequest represents the publisher create/update payload
type PublisherRequest struct {
	Name    string  `json:"name"`
	Website *string `json:"website"`
	Address *string `json:"address"`
}

func (r *PublisherRequest) toModel() *models.Publisher {
	return &models.Publisher{
		Name:    r.Name,
		Website: r.Website,
		Address: r.Address,
	}
}

// CreatePublisher handles creating a new publisher
func (h *PublisherHandlers) CreatePublisher(c echo.Context) error {
	ctx := c.Request().Context()

	var req PublisherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	publisher := req.toModel()
	if err := h.publisherService.Create(ctx, publisher); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Publisher created successfully",
		"publisher": publisher,
	})
}

// ListPublishersRequest represents query parameters for listing publishers
type ListPublishersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListPublishers handles getting a list of publishers
func (h *PublisherHandlers) ListPublishers(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListPublishersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	publishers, err := h.publisherService.List(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"publishers": publishers,
		"limit":      limit,
		"offset":     offset,
	})
}

// GetPublisher handles getting publisher details by ID
func (h *PublisherHandlers) GetPublisher(c echo.Context) error {
	ctx := c.Request().Context()

	publisherID, err := common.ValidateUUID(c.Param("id"), "publisher ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publisher, err := h.publisherService.GetByID(ctx, publisherID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, publisher)
}

// UpdatePublisher handles updating publisher details
func (h *PublisherHandlers) UpdatePublisher(c echo.Context) error {
	ctx := c.Request().Context()

	publisherID, err := common.ValidateUUID(c.Param("id"), "publisher ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req PublisherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	publisher := req.toModel()
	publisher.ID = publisherID

	if err := h.publisherService.Update(ctx, publisher); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Publisher updated successfully",
		"publisher": publisher,
	})
}

// DeletePublisher handles deleting a publisher
func (h *PublisherHandlers) DeletePublisher(c echo.Context) error {
	ctx := c.Request().Context()

	publisherID, err := common.ValidateUUID(c.Param("id"), "publisher ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.publisherService.Delete(ctx, publisherID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Publisher deleted successfully",
	})
}
