package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/money"
	"github.com/probudget/probudget-backend/internal/service"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// SetBudgetRequest represents the upsert budget request body
type SetBudgetRequest struct {
	Category string `json:"category,omitempty"`
	Amount   string `json:"amount"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID       string  `json:"id"`
	Category *string `json:"category,omitempty"`
	Overall  bool    `json:"overall"`
	Amount   string  `json:"amount"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
}

func toBudgetResponse(b *domain.MonthlyBudget) BudgetResponse {
	resp := BudgetResponse{
		ID:      b.ID.String(),
		Overall: b.Scope.IsOverall(),
		Amount:  money.Format(b.Amount),
		Month:   b.Month,
		Year:    b.Year,
	}
	if name, ok := b.Scope.Category(); ok {
		resp.Category = &name
	}
	return resp
}

// SetOverallBudget handles POST /budgets/overall
func (h *BudgetHandler) SetOverallBudget(c echo.Context) error {
	var req SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.UpsertOverallBudget(c.Request().Context(), amount, req.Month, req.Year)
	if err != nil {
		return serviceError(c, err, "Failed to set overall budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// SetCategoryBudget handles POST /budgets/category
func (h *BudgetHandler) SetCategoryBudget(c echo.Context) error {
	var req SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.UpsertCategoryBudget(c.Request().Context(), req.Category, amount, req.Month, req.Year)
	if err != nil {
		return serviceError(c, err, "Failed to set category budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// GetBudgets handles GET /budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	budgets, err := h.budgetService.ListBudgets(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "Failed to list budgets")
	}
	out := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		out[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, out)
}

// SavingHandler handles monthly saving HTTP requests
type SavingHandler struct {
	savingService *service.SavingService
}

// NewSavingHandler creates a new SavingHandler
func NewSavingHandler(savingService *service.SavingService) *SavingHandler {
	return &SavingHandler{savingService: savingService}
}

// SetSavingRequest represents the upsert saving request body
type SetSavingRequest struct {
	Amount string `json:"amount"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
}

// SavingResponse represents a monthly saving in API responses
type SavingResponse struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
}

func toSavingResponse(s *domain.MonthlySaving) SavingResponse {
	return SavingResponse{
		ID:     s.ID.String(),
		Amount: money.Format(s.Amount),
		Month:  s.Month,
		Year:   s.Year,
	}
}

// SetSaving handles POST /savings
func (h *SavingHandler) SetSaving(c echo.Context) error {
	var req SetSavingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	saving, err := h.savingService.UpsertSaving(c.Request().Context(), amount, req.Month, req.Year)
	if err != nil {
		return serviceError(c, err, "Failed to set saving")
	}
	return c.JSON(http.StatusOK, toSavingResponse(saving))
}

// GetSavings handles GET /savings
func (h *SavingHandler) GetSavings(c echo.Context) error {
	savings, err := h.savingService.ListSavings(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "Failed to list savings")
	}
	out := make([]SavingResponse, len(savings))
	for i, s := range savings {
		out[i] = toSavingResponse(s)
	}
	return c.JSON(http.StatusOK, out)
}
