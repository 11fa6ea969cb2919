package repository

import gmaildomain "finwell-backend/internal/gmail/domain"

// CredentialRepository defines persistence for Gmail OAuth credentials.
type CredentialRepository interface {
	// FindActiveByUser returns the active credential for a user, or nil.
	FindActiveByUser(userID string) (*gmaildomain.GmailCredential, error)
	// Store inserts a new credential, deactivating any prior active ones for
	// the same user so at most one credential is active at a time.
	Store(cred *gmaildomain.GmailCredential) error
	// Deactivate marks all of a user's credentials inactive; idempotent.
	Deactivate(userID string) error
	// UpdateToken persists a refreshed access token and its expiry.
	UpdateToken(id, accessToken string, expiryDate int64) error
	// TouchLastUsed records that the credential was successfully used.
	TouchLastUsed(id string) error
}
