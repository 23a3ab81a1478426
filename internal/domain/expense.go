package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category enumerates the fixed expense categories in their canonical
// capitalized form.
type Category string

const (
	CategoryFood     Category = "Food"
	CategoryTravel   Category = "Travel"
	CategorySupplies Category = "Supplies"
	CategoryOther    Category = "Other"
)

// ExpenseStatus enumerates approval states.
type ExpenseStatus string

const (
	StatusPending  ExpenseStatus = "Pending"
	StatusApproved ExpenseStatus = "Approved"
)

// Expense is a single spend record owned by exactly one user. Status is
// derived from the budget rule at creation/edit time and never set by callers.
type Expense struct {
	ID          string
	OwnerID     string
	Amount      float64
	Category    Category
	Description string
	Date        time.Time
	ReceiptURL  string
	Status      ExpenseStatus
	CreatedAt   time.Time
}

var categoryCaser = cases.Title(language.Und)

// NormalizeCategory maps a free-text category string onto the fixed set.
// Matching is case-insensitive; anything outside the four known categories
// collapses to Other. Pure function of the input string.
func NormalizeCategory(raw string) Category {
	c := strings.ToLower(strings.TrimSpace(raw))
	switch c {
	case "food", "travel", "supplies", "other":
		return Category(categoryCaser.String(c))
	default:
		return CategoryOther
	}
}
