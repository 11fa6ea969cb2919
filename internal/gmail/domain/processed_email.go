package domain

import "time"

// Processed email statuses.
const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusError     = "error"
)

// ProcessedEmail permanently marks a Gmail message as handled for a user.
// The compound unique index on (user_id, gmail_message_id) is the system's
// idempotence guarantee: once marked, a message is never re-evaluated, even
// when concurrent imports race past the in-memory cooldown gate.
type ProcessedEmail struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"uniqueIndex:idx_user_message;not null"`
	GmailMessageID string    `json:"gmail_message_id" gorm:"uniqueIndex:idx_user_message;not null"`
	EmailSubject   string    `json:"email_subject"`
	SenderEmail    string    `json:"sender_email"`
	ProcessedAt    time.Time `json:"processed_at"`
	ExpenseID      *string   `json:"expense_id,omitempty"`
	Status         string    `json:"status" gorm:"default:processed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
