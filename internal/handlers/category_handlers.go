package handlers

import (
	"net/http"

	"bookmart/internal/common"
	"bookmart/internal/models"
	"bookmart/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categoryService services.CategoryService
}

// NewCategoryHandlers creates a new category handlers instance
func NewCategoryHandlers(categoryService services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

// CategoryRequest represents the category create/update payload. IsActive
// defaults to true when omitted, mirroring the column default.
type CategoryRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Slug         string  `json:"slug"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder int     `json:"display_order"`
	ParentID     *string `json:"parent_id"`
}

func (r *CategoryRequest) toModel() (*models.Category, error) {
	category := &models.Category{
		Name:         r.Name,
		Description:  r.Description,
		Slug:         r.Slug,
		IsActive:     true,
		DisplayOrder: r.DisplayOrder,
	}
	if r.IsActive != nil {
		category.IsActive = *r.IsActive
	}
	if common.SafeString(r.ParentID) != "" {
		parentID, err := common.ValidateUUID(common.SafeString(r.ParentID), "parent_id")
		if err != nil {
			return nil, err
		}
		category.ParentID = &parentID
	}
	return category, nil
}

// CreateCategory handles creating a new category
//
//	@Summary	Create a category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		category	body		CategoryRequest	true	"Category payload"
//	@Success	201			{object}	map[string]interface{}
//	@Failure	400,409		{object}	common.ErrorResponse
//	@Router		/categories [post]
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	category, err := req.toModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.categoryService.Create(ctx, category); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Category created successfully",
		"category": category,
	})
}

// ListCategoriesRequest represents query parameters for listing categories
type ListCategoriesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListCategories handles getting a list of categories
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"
//	@Param		offset	query		int	false	"Page offset"
//	@Success	200		{object}	map[string]interface{}
//	@Router		/categories [get]
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListCategoriesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	categories, err := h.categoryService.List(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"limit":      limit,
		"offset":     offset,
	})
}

// GetCategory handles getting category details by ID
//
//	@Summary	Get a category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	models.CategoryDetail
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/categories/{id} [get]
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categoryService.GetByID(ctx, categoryID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

// UpdateCategory handles updating category details
//
//	@Summary	Update a category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string			true	"Category ID"
//	@Param		category	body		CategoryRequest	true	"Category payload"
//	@Success	200			{object}	map[string]interface{}
//	@Failure	400,404,409	{object}	common.ErrorResponse
//	@Router		/categories/{id} [put]
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	category, err := req.toModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	category.ID = categoryID

	if err := h.categoryService.Update(ctx, category); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory handles deleting a category
//
//	@Summary	Delete a category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/categories/{id} [delete]
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.categoryService.Delete(ctx, categoryID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Category deleted successfully",
	})
}

// GetCategoryPath handles getting the full ancestor path of a category
//
//	@Summary	Get a category's full path
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/categories/{id}/path [get]
func (h *CategoryHandlers) GetCategoryPath(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	path, err := h.categoryService.FullPath(ctx, categoryID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"category_id": categoryID.String(),
		"full_path":   path,
	})
}

// GetSubcategories handles getting the descendant subtree of a category
//
//	@Summary	List a category's descendants in depth-first order
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	map[string]interface{}
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/categories/{id}/subcategories [get]
func (h *CategoryHandlers) GetSubcategories(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subcategories, err := h.categoryService.Subtree(ctx, categoryID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"category_id":   categoryID.String(),
		"subcategories": subcategories,
		"count":         len(subcategories),
	})
}

// ActivateCategory handles reactivating a category
//
//	@Summary	Activate a category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/categories/{id}/activate [post]
func (h *CategoryHandlers) ActivateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.categoryService.Activate(ctx, categoryID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Category activated successfully",
	})
}

// DeactivateCategory handles deactivating a category. Deactivation is refused
// while the category still has active direct children.
//
//	@Summary	Deactivate a category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400,404	{object}	common.ErrorResponse
//	@Router		/categories/{id}/deactivate [post]
func (h *CategoryHandlers) DeactivateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.categoryService.Deactivate(ctx, categoryID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Category deactivated successfully",
	})
}
