package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"finbot/internal/domain"
	"finbot/internal/expense"
)

type expenseRequest struct {
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ReceiptURL  string    `json:"receipt_url"`
}

type expenseDTO struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ReceiptURL  string    `json:"receipt_url,omitempty"`
	Status      string    `json:"status"`
}

func toExpenseDTO(e *domain.Expense) expenseDTO {
	return expenseDTO{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Amount:      e.Amount,
		Category:    string(e.Category),
		Description: e.Description,
		Date:        e.Date,
		ReceiptURL:  e.ReceiptURL,
		Status:      string(e.Status),
	}
}

func (req expenseRequest) toInput() expense.SubmitInput {
	// Direct API submissions carry the category as-is; only the chat pipeline
	// normalizes free text.
	return expense.SubmitInput{
		Amount:      req.Amount,
		Category:    domain.Category(req.Category),
		Description: req.Description,
		Date:        req.Date,
		ReceiptURL:  req.ReceiptURL,
	}
}

// CreateExpense submits a new expense for the authenticated user; its status
// comes out of the budget rule.
func (a *App) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount < 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must not be negative")
		return
	}
	created, err := a.Expenses.Submit(r.Context(), user.ID, req.toInput())
	if err != nil {
		a.Logger.Error().Err(err).Msg("submit expense failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create expense")
		return
	}
	a.json(w, http.StatusCreated, toExpenseDTO(created))
}

// ListExpenses returns expenses newest-first. Grade-0 callers see all owners.
func (a *App) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	skip, limit := pagination(r, 0, 100)
	expenses, err := a.Expenses.List(r.Context(), user, skip, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list expenses failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list expenses")
		return
	}
	out := make([]expenseDTO, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseDTO(&expenses[i]))
	}
	a.json(w, http.StatusOK, out)
}

// UpdateExpense edits an owned expense and recomputes its status.
func (a *App) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	updated, err := a.Expenses.Edit(r.Context(), chi.URLParam(r, "id"), user.ID, req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "Expense not found")
			return
		}
		a.Logger.Error().Err(err).Msg("update expense failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update expense")
		return
	}
	a.json(w, http.StatusOK, toExpenseDTO(updated))
}

// DeleteExpense removes an owned expense.
func (a *App) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Expenses.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "Expense not found")
			return
		}
		a.Logger.Error().Err(err).Msg("delete expense failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pagination(r *http.Request, defaultSkip, defaultLimit int) (int, int) {
	skip := defaultSkip
	limit := defaultLimit
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}
	return skip, limit
}
