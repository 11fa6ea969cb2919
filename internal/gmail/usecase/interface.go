package usecase

import (
	"context"

	gmaildomain "finwell-backend/internal/gmail/domain"

	"golang.org/x/oauth2"
)

// MailClient abstracts the Gmail provider API so the orchestrator can be
// tested without network access.
type MailClient interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetProfile(ctx context.Context, cred *gmaildomain.GmailCredential, onTokenRefresh gmaildomain.TokenUpdateFunc) (string, error)
	GetProfileWithToken(ctx context.Context, token *oauth2.Token) (string, error)
	SearchCandidateMessages(ctx context.Context, cred *gmaildomain.GmailCredential, queries []string, onTokenRefresh gmaildomain.TokenUpdateFunc) ([]string, error)
	FetchMessage(ctx context.Context, cred *gmaildomain.GmailCredential, messageID string, onTokenRefresh gmaildomain.TokenUpdateFunc) (*gmaildomain.EmailContent, error)
}

// AuthUsecase defines the Gmail OAuth lifecycle operations.
type AuthUsecase interface {
	// GetAuthURL builds the consent URL with a signed state token carrying
	// the requesting user's identity.
	GetAuthURL(userID string) (string, error)
	// HandleCallback verifies the state token, exchanges the code, fetches
	// the mailbox profile and stores the credential. Returns the mailbox
	// email address.
	HandleCallback(ctx context.Context, code, state string) (string, error)
	// Status reports whether the user has an active credential and for which
	// mailbox.
	Status(userID string) (bool, string, error)
	// Disconnect deactivates the user's credential; idempotent.
	Disconnect(userID string) error
	// TestConnection probes the provider with the stored credential.
	TestConnection(ctx context.Context, userID string) (string, error)
}

// ImportUsecase defines the ingestion operations exposed over HTTP.
type ImportUsecase interface {
	// FetchExpenses runs one full ingestion pass for the user.
	FetchExpenses(ctx context.Context, userID string) (*gmaildomain.ImportSummary, error)
	// ImportStatus reports whether the cooldown gate is active and the
	// remaining wait in seconds.
	ImportStatus(userID string) (bool, int)
	// ListProcessedEmails returns one page of processed-email markers.
	ListProcessedEmails(userID string, page, limit int) ([]*gmaildomain.ProcessedEmail, int64, error)
	// ClearProcessedEmails bulk-deletes the user's markers.
	ClearProcessedEmails(userID string) (int64, error)
}
