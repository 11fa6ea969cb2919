package repository

import gmaildomain "finwell-backend/internal/gmail/domain"

// ProcessedEmailRepository defines persistence for processed-email markers.
type ProcessedEmailRepository interface {
	// IsProcessed checks whether a marker exists for (userID, messageID).
	IsProcessed(userID, messageID string) (bool, error)
	// Mark writes a marker. A concurrent duplicate-key violation is absorbed
	// as already-processed, keeping the unique constraint authoritative.
	Mark(record *gmaildomain.ProcessedEmail) error
	// ListByUser returns one page of markers, newest first, plus the total.
	ListByUser(userID string, page, limit int) ([]*gmaildomain.ProcessedEmail, int64, error)
	// DeleteByUser bulk-deletes a user's markers and returns how many.
	DeleteByUser(userID string) (int64, error)
}
