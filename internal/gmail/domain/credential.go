package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenUpdateFunc is invoked whenever the underlying OAuth token is refreshed,
// so the new access token can be persisted.
type TokenUpdateFunc func(token *oauth2.Token) error

// GmailCredential stores one OAuth credential set for a user's Gmail account.
// Re-authentication deactivates the prior record instead of deleting it, so
// at most one row per user is active at a time.
type GmailCredential struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index;not null"`
	AccessToken  string    `json:"-" gorm:"not null"`
	RefreshToken string    `json:"-" gorm:"not null"`
	Scope        string    `json:"scope"`
	TokenType    string    `json:"token_type" gorm:"default:Bearer"`
	ExpiryDate   int64     `json:"expiry_date"` // epoch milliseconds
	GmailEmail   string    `json:"gmail_email" gorm:"index"`
	IsActive     bool      `json:"is_active"`
	LastUsed     time.Time `json:"last_used"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsExpired reports whether the stored access token has passed its expiry.
func (c *GmailCredential) IsExpired(now time.Time) bool {
	return now.UnixMilli() >= c.ExpiryDate
}

// Token converts the stored credential into an oauth2 token. An expired token
// triggers a lazy refresh on first use.
func (c *GmailCredential) Token() *oauth2.Token {
	tokenType := c.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    tokenType,
		Expiry:       time.UnixMilli(c.ExpiryDate),
	}
}
