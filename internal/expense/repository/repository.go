package repository

import (
	"time"

	expensedomain "finwell-backend/internal/expense/domain"
)

// ExpenseRepository defines the expense persistence used by the Gmail
// ingestion pipeline: creation plus the duplicate-detection predicates.
type ExpenseRepository interface {
	Create(expense *expensedomain.Expense) error
	// FindExactMatch looks for an expense with identical user, title and
	// amount dated within the given calendar day.
	FindExactMatch(userID, title string, amount float64, day time.Time) (*expensedomain.Expense, error)
	// DescriptionContains reports whether any of the user's expenses embeds
	// substr in its description (legacy message-ID traceability check).
	DescriptionContains(userID, substr string) (bool, error)
}
