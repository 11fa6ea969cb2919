package domain

import (
	"errors"
	"fmt"

	expensedomain "finwell-backend/internal/expense/domain"
)

var (
	// ErrNotConnected means no active Gmail credential exists for the user.
	ErrNotConnected = errors.New("gmail account not connected")
	// ErrReauthRequired means the refresh token was rejected by Google and
	// the user must go through the OAuth flow again.
	ErrReauthRequired = errors.New("gmail token has expired, please re-authenticate with gmail")
)

// CooldownError is returned when an import is rejected by the cooldown gate.
type CooldownError struct {
	RemainingSeconds int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before importing again", e.RemainingSeconds)
}

// ImportSummary is the result of one full ingestion pass. It is always
// populated, even under partial failure: per-message errors end up in Errors
// while the loop continues.
type ImportSummary struct {
	Message               string                   `json:"message"`
	Expenses              []*expensedomain.Expense `json:"expenses"`
	Errors                []string                 `json:"errors,omitempty"`
	TotalMessagesFound    int                      `json:"totalMessagesFound"`
	TotalExpensesImported int                      `json:"totalExpensesImported"`
	DuplicatesSkipped     int                      `json:"duplicatesSkipped"`
}
