package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/money"
	"github.com/probudget/probudget-backend/internal/service"
)

const dateLayout = "2006-01-02"

// EntryHandler handles ledger entry HTTP requests
type EntryHandler struct {
	ledgerService *service.LedgerService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(ledgerService *service.LedgerService) *EntryHandler {
	return &EntryHandler{ledgerService: ledgerService}
}

// EntryRequest represents the create/update entry request body
type EntryRequest struct {
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Date        string   `json:"date"`
	Kind        string   `json:"kind"`
	Category    string   `json:"category"`
	Quantity    int32    `json:"quantity,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Date        string   `json:"date"`
	Kind        string   `json:"kind"`
	Category    string   `json:"category"`
	Quantity    int32    `json:"quantity"`
	Labels      []string `json:"labels"`
	RecurringID *string  `json:"recurringId,omitempty"`
}

func toEntryResponse(e *domain.LedgerEntry) EntryResponse {
	resp := EntryResponse{
		ID:          e.ID.String(),
		Description: e.Description,
		Amount:      money.Format(e.Amount),
		Date:        e.Date.Format(dateLayout),
		Kind:        string(e.Kind),
		Category:    e.Category,
		Quantity:    e.Quantity,
		Labels:      e.Labels,
	}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	if e.RecurringID != nil {
		id := e.RecurringID.String()
		resp.RecurringID = &id
	}
	return resp
}

func toEntryResponses(entries []*domain.LedgerEntry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}
	return out
}

func (r EntryRequest) toInput() (service.CreateEntryInput, []ValidationError) {
	var fieldErrs []ValidationError

	amount, err := money.Parse(r.Amount)
	if err != nil {
		fieldErrs = append(fieldErrs, ValidationError{Field: "amount", Message: "Must be a valid decimal number"})
	}

	var date time.Time
	if r.Date != "" {
		date, err = time.Parse(dateLayout, r.Date)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: "date", Message: "Must be in YYYY-MM-DD format"})
		}
	}

	return service.CreateEntryInput{
		Description: r.Description,
		Amount:      amount,
		Date:        date,
		Kind:        domain.EntryKind(r.Kind),
		Category:    r.Category,
		Quantity:    r.Quantity,
		Labels:      r.Labels,
	}, fieldErrs
}

// CreateEntry handles POST /entries
func (h *EntryHandler) CreateEntry(c echo.Context) error {
	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErrs := req.toInput()
	if len(fieldErrs) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrs)
	}

	entry, err := h.ledgerService.CreateEntry(c.Request().Context(), input)
	if err != nil {
		return serviceError(c, err, "Failed to create entry")
	}
	return c.JSON(http.StatusCreated, toEntryResponse(entry))
}

// CreateEntries handles POST /entries/batch
func (h *EntryHandler) CreateEntries(c echo.Context) error {
	var reqs []EntryRequest
	if err := c.Bind(&reqs); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(reqs) == 0 {
		return NewValidationError(c, "At least one entry is required", nil)
	}

	inputs := make([]service.CreateEntryInput, len(reqs))
	for i, req := range reqs {
		input, fieldErrs := req.toInput()
		if len(fieldErrs) > 0 {
			return NewValidationError(c, "Validation failed", fieldErrs)
		}
		inputs[i] = input
	}

	entries, err := h.ledgerService.CreateEntries(c.Request().Context(), inputs)
	if err != nil {
		return serviceError(c, err, "Failed to create entries")
	}
	return c.JSON(http.StatusCreated, toEntryResponses(entries))
}

// GetEntries handles GET /entries
func (h *EntryHandler) GetEntries(c echo.Context) error {
	var filter domain.EntryFilter

	if kindStr := c.QueryParam("kind"); kindStr != "" {
		kind := domain.EntryKind(kindStr)
		if !kind.Valid() {
			return NewValidationError(c, "Invalid kind", []ValidationError{
				{Field: "kind", Message: "Must be one of: income, expense"},
			})
		}
		filter.Kind = &kind
	}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}
	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return NewValidationError(c, "Invalid from date", []ValidationError{
				{Field: "from", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filter.From = &from
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return NewValidationError(c, "Invalid to date", []ValidationError{
				{Field: "to", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filter.To = &to
	}

	entries, err := h.ledgerService.ListEntries(c.Request().Context(), filter)
	if err != nil {
		return serviceError(c, err, "Failed to list entries")
	}
	return c.JSON(http.StatusOK, toEntryResponses(entries))
}

// UpdateEntry handles PUT /entries/:id
func (h *EntryHandler) UpdateEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErrs := req.toInput()
	if len(fieldErrs) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrs)
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request().Context(), id, input)
	if err != nil {
		return serviceError(c, err, "Failed to update entry")
	}
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// DeleteEntry handles DELETE /entries/:id
func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	if err := h.ledgerService.DeleteEntry(c.Request().Context(), id); err != nil {
		return serviceError(c, err, "Failed to delete entry")
	}
	return c.NoContent(http.StatusNoContent)
}
