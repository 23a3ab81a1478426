package expense

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"finbot/internal/domain"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return nil, nil
}

type fakeExpenseRepo struct {
	expenses  map[string]*domain.Expense
	nextID    int
	insertErr error
}

func (f *fakeExpenseRepo) Insert(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	e.ID = fmt.Sprintf("exp-%d", f.nextID)
	copied := *e
	f.expenses[e.ID] = &copied
	return e, nil
}

func (f *fakeExpenseRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Expense, error) {
	if e, ok := f.expenses[id]; ok && e.OwnerID == ownerID {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeExpenseRepo) Update(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	if _, ok := f.expenses[e.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	copied := *e
	f.expenses[e.ID] = &copied
	return e, nil
}

func (f *fakeExpenseRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	if e, ok := f.expenses[id]; ok && e.OwnerID == ownerID {
		delete(f.expenses, id)
		return true, nil
	}
	return false, nil
}

func (f *fakeExpenseRepo) List(ctx context.Context, ownerID string, skip, limit int) ([]domain.Expense, error) {
	var out []domain.Expense
	for _, e := range f.expenses {
		if ownerID == "" || e.OwnerID == ownerID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if skip > len(out) {
		skip = len(out)
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeExpenseRepo) ListByOwnerCategoryStatus(ctx context.Context, ownerID string, category domain.Category, status domain.ExpenseStatus) ([]domain.Expense, error) {
	var out []domain.Expense
	for _, e := range f.expenses {
		if e.OwnerID == ownerID && e.Category == category && e.Status == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) ListRecentByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Expense, error) {
	return f.List(ctx, ownerID, 0, limit)
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeExpenseRepo) {
	t.Helper()
	users := &fakeUserRepo{users: map[string]*domain.User{
		"u1":    {ID: "u1", Email: "u1@example.com", Grade: 3},
		"u2":    {ID: "u2", Email: "u2@example.com", Grade: 1},
		"admin": {ID: "admin", Email: "admin@example.com", Grade: 0},
	}}
	expenses := &fakeExpenseRepo{expenses: map[string]*domain.Expense{}}
	return NewService(users, expenses, zerolog.Nop()), users, expenses
}

func TestSubmitApprovesWithinDailyLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	first, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 250, Category: domain.CategoryFood, Description: "lunch", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if first.Status != domain.StatusApproved {
		t.Fatalf("first status = %q, want Approved", first.Status)
	}

	second, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 100, Category: domain.CategoryFood, Description: "dinner", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if second.Status != domain.StatusPending {
		t.Fatalf("second status = %q, want Pending (100 > 300-250)", second.Status)
	}
}

func TestSubmitApprovalBoundary(t *testing.T) {
	svc, _, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	exact, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 300, Category: domain.CategoryTravel, Description: "train", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if exact.Status != domain.StatusApproved {
		t.Fatalf("status at exact limit = %q, want Approved", exact.Status)
	}

	over, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 0.01, Category: domain.CategoryTravel, Description: "snack", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if over.Status != domain.StatusPending {
		t.Fatalf("status one cent over = %q, want Pending", over.Status)
	}
}

func TestSubmitZeroAmountApprovesOnExhaustedBudget(t *testing.T) {
	svc, _, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	if _, err := svc.Submit(context.Background(), "u2", SubmitInput{
		Amount: 100, Category: domain.CategoryOther, Description: "cap", Date: today,
	}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	zero, err := svc.Submit(context.Background(), "u2", SubmitInput{
		Amount: 0, Category: domain.CategoryOther, Description: "free", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if zero.Status != domain.StatusApproved {
		t.Fatalf("zero-amount status = %q, want Approved", zero.Status)
	}
}

func TestSubmitBudgetsAreIndependentPerCategory(t *testing.T) {
	svc, _, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	if _, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 300, Category: domain.CategoryFood, Description: "feast", Date: today,
	}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	travel, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 300, Category: domain.CategoryTravel, Description: "cab", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if travel.Status != domain.StatusApproved {
		t.Fatalf("travel status = %q, want Approved despite exhausted food budget", travel.Status)
	}
}

func TestEditExcludesOwnPriorAmount(t *testing.T) {
	svc, _, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	created, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 250, Category: domain.CategoryFood, Description: "lunch", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if created.Status != domain.StatusApproved {
		t.Fatalf("created status = %q, want Approved", created.Status)
	}

	edited, err := svc.Edit(context.Background(), created.ID, "u1", SubmitInput{
		Amount: 50, Category: domain.CategoryFood, Description: "lunch (corrected)", Date: today,
	})
	if err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if edited.Status != domain.StatusApproved {
		t.Fatalf("edited status = %q, want Approved (prior amount must not count against itself)", edited.Status)
	}
	if edited.Amount != 50 {
		t.Fatalf("edited amount = %v, want 50", edited.Amount)
	}
}

func TestEditRecomputesAgainstOtherApprovedSpend(t *testing.T) {
	svc, _, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	if _, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 280, Category: domain.CategoryFood, Description: "feast", Date: today,
	}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	small, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 10, Category: domain.CategoryFood, Description: "tea", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	edited, err := svc.Edit(context.Background(), small.ID, "u1", SubmitInput{
		Amount: 30, Category: domain.CategoryFood, Description: "tea and snacks", Date: today,
	})
	if err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if edited.Status != domain.StatusPending {
		t.Fatalf("edited status = %q, want Pending (30 > 300-280)", edited.Status)
	}
}

func TestEditOtherOwnersExpenseIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	created, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 10, Category: domain.CategoryFood, Description: "tea", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	_, err = svc.Edit(context.Background(), created.ID, "u2", SubmitInput{
		Amount: 20, Category: domain.CategoryFood, Description: "theft", Date: today,
	})
	if err != domain.ErrNotFound {
		t.Fatalf("Edit by non-owner returned %v, want ErrNotFound", err)
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	created, err := svc.Submit(context.Background(), "u1", SubmitInput{
		Amount: 10, Category: domain.CategoryFood, Description: "tea", Date: today,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "u2"); err != domain.ErrNotFound {
		t.Fatalf("Delete by non-owner returned %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "u1"); err != nil {
		t.Fatalf("Delete by owner returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "u1"); err != domain.ErrNotFound {
		t.Fatalf("second Delete returned %v, want ErrNotFound", err)
	}
}

func TestListAdminSeesAllOwners(t *testing.T) {
	svc, users, _ := newTestService(t)
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, domain.IST)

	for _, owner := range []string{"u1", "u2"} {
		if _, err := svc.Submit(context.Background(), owner, SubmitInput{
			Amount: 10, Category: domain.CategoryFood, Description: "tea", Date: today,
		}); err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
	}

	admin, _ := users.GetByID(context.Background(), "admin")
	all, err := svc.List(context.Background(), admin, 0, 100)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin list returned %d records, want 2", len(all))
	}

	u1, _ := users.GetByID(context.Background(), "u1")
	own, err := svc.List(context.Background(), u1, 0, 100)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(own) != 1 || own[0].OwnerID != "u1" {
		t.Fatalf("owner list = %+v, want only u1's record", own)
	}
}
