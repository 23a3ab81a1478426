package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context, skip, limit int) ([]User, error)
}

// ExpenseRepository defines persistence for expense records.
type ExpenseRepository interface {
	Insert(ctx context.Context, expense *Expense) (*Expense, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*Expense, error)
	Update(ctx context.Context, expense *Expense) (*Expense, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	// List returns expenses ordered by date desc then id desc. An empty
	// ownerID lists across all owners.
	List(ctx context.Context, ownerID string, skip, limit int) ([]Expense, error)
	ListByOwnerCategoryStatus(ctx context.Context, ownerID string, category Category, status ExpenseStatus) ([]Expense, error)
	ListRecentByOwner(ctx context.Context, ownerID string, limit int) ([]Expense, error)
}

// ChatRepository defines persistence for chat messages.
type ChatRepository interface {
	Insert(ctx context.Context, chat *Chat) (*Chat, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Chat, error)
}
