package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/service"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// RenameCategoryRequest represents the rename category request body
type RenameCategoryRequest struct {
	Name string `json:"name"`
}

// AffectsBudgetRequest represents the affects-budget toggle request body
type AffectsBudgetRequest struct {
	AffectsBudget bool `json:"affectsBudget"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	IsDefault     bool   `json:"isDefault"`
	AffectsBudget bool   `json:"affectsBudget"`
}

func toCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:            cat.ID.String(),
		Name:          cat.Name,
		Kind:          string(cat.Kind),
		IsDefault:     cat.IsDefault,
		AffectsBudget: cat.AffectsBudget,
	}
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, domain.EntryKind(req.Kind))
	if err != nil {
		return serviceError(c, err, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "Failed to list categories")
	}
	out := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = toCategoryResponse(cat)
	}
	return c.JSON(http.StatusOK, out)
}

// RenameCategory handles PUT /categories/:id
func (h *CategoryHandler) RenameCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req RenameCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.RenameCategory(c.Request().Context(), id, req.Name)
	if err != nil {
		return serviceError(c, err, "Failed to rename category")
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// SetAffectsBudget handles PATCH /categories/:id/affects-budget
func (h *CategoryHandler) SetAffectsBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req AffectsBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.SetAffectsBudget(c.Request().Context(), id, req.AffectsBudget)
	if err != nil {
		return serviceError(c, err, "Failed to update category")
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return serviceError(c, err, "Failed to delete category")
	}
	return c.NoContent(http.StatusNoContent)
}
