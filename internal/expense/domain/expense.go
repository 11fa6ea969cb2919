package domain

import "time"

// CategoryGmailImport is the category assigned to expenses created by the
// Gmail ingestion pipeline.
const CategoryGmailImport = "Gmail Import"

// Expense is a single expense record. Records created by the Gmail pipeline
// embed the source message ID (and vendor, when found) in the description for
// traceability.
type Expense struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
