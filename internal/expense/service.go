// Package expense implements the approval service: it decides whether a
// submitted or edited expense is auto-approved or held pending against the
// owner's per-category daily budget, and persists the outcome.
package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"finbot/internal/domain"
)

// SubmitInput carries the caller-controlled fields of an expense. Status is
// never part of the input; it is derived from the budget rule.
type SubmitInput struct {
	Amount      float64
	Category    domain.Category
	Description string
	Date        time.Time
	ReceiptURL  string
}

// Service orchestrates the budget ledger and the persistence layer.
type Service struct {
	users    domain.UserRepository
	expenses domain.ExpenseRepository
	log      zerolog.Logger
}

// NewService creates an approval service.
func NewService(users domain.UserRepository, expenses domain.ExpenseRepository, log zerolog.Logger) *Service {
	return &Service{users: users, expenses: expenses, log: log}
}

// Submit evaluates a new expense against the owner's remaining allowance and
// persists it as Approved or Pending. Equality with the remaining allowance
// approves.
//
// The read of the approved aggregate and the insert are not transactional:
// two concurrent submissions can both observe the same remaining value and
// both be approved past the limit. Known weak-consistency window.
func (s *Service) Submit(ctx context.Context, ownerID string, in SubmitInput) (*domain.Expense, error) {
	user, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	remaining, err := s.remaining(ctx, user, in.Category, in.Date, "")
	if err != nil {
		return nil, err
	}
	status := domain.StatusPending
	if in.Amount <= remaining {
		status = domain.StatusApproved
	}
	created, err := s.expenses.Insert(ctx, &domain.Expense{
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		ReceiptURL:  in.ReceiptURL,
		Status:      status,
	})
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	s.log.Debug().
		Str("owner_id", ownerID).
		Str("category", string(in.Category)).
		Float64("amount", in.Amount).
		Float64("remaining", remaining).
		Str("status", string(status)).
		Msg("expense submitted")
	return created, nil
}

// Edit overwrites an owner's expense and recomputes its status with the
// record itself excluded from the spend aggregate, so its prior amount is not
// counted against the new one. Returns domain.ErrNotFound when the id does
// not exist for this owner.
func (s *Service) Edit(ctx context.Context, expenseID, ownerID string, in SubmitInput) (*domain.Expense, error) {
	target, err := s.expenses.GetByIDAndOwner(ctx, expenseID, ownerID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	remaining, err := s.remaining(ctx, user, in.Category, in.Date, expenseID)
	if err != nil {
		return nil, err
	}
	target.Amount = in.Amount
	target.Category = in.Category
	target.Description = in.Description
	target.Date = in.Date
	if in.ReceiptURL != "" {
		target.ReceiptURL = in.ReceiptURL
	}
	target.Status = domain.StatusPending
	if in.Amount <= remaining {
		target.Status = domain.StatusApproved
	}
	updated, err := s.expenses.Update(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return updated, nil
}

// Delete removes an owner's expense. Returns domain.ErrNotFound when no
// record matches the (id, owner) pair.
func (s *Service) Delete(ctx context.Context, expenseID, ownerID string) error {
	ok, err := s.expenses.Delete(ctx, expenseID, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// List returns expenses newest-first. Administrative callers (grade 0) see
// records across all owners; everyone else sees only their own.
func (s *Service) List(ctx context.Context, caller *domain.User, skip, limit int) ([]domain.Expense, error) {
	ownerID := caller.ID
	if caller.IsAdmin() {
		ownerID = ""
	}
	return s.expenses.List(ctx, ownerID, skip, limit)
}

func (s *Service) remaining(ctx context.Context, user *domain.User, category domain.Category, date time.Time, excludeID string) (float64, error) {
	approved, err := s.expenses.ListByOwnerCategoryStatus(ctx, user.ID, category, domain.StatusApproved)
	if err != nil {
		return 0, fmt.Errorf("load approved expenses: %w", err)
	}
	return domain.Remaining(user.Grade, category, date, excludeID, approved), nil
}
