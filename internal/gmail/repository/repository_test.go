package repository

import (
	"fmt"
	"testing"
	"time"

	gmaildomain "finwell-backend/internal/gmail/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:gmailrepo%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&gmaildomain.GmailCredential{}, &gmaildomain.ProcessedEmail{}))
	return db
}

func newCredential(userID string) *gmaildomain.GmailCredential {
	return &gmaildomain.GmailCredential{
		UserID:       userID,
		AccessToken:  "access",
		RefreshToken: "refresh",
		Scope:        "https://www.googleapis.com/auth/gmail.readonly",
		TokenType:    "Bearer",
		ExpiryDate:   time.Now().Add(time.Hour).UnixMilli(),
		GmailEmail:   "user@gmail.com",
	}
}

func TestStoreEnforcesSingleActiveCredential(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)

	first := newCredential("user-1")
	require.NoError(t, repo.Store(first))

	second := newCredential("user-1")
	second.GmailEmail = "other@gmail.com"
	require.NoError(t, repo.Store(second))

	active, err := repo.FindActiveByUser("user-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, "other@gmail.com", active.GmailEmail)

	// The prior row is kept for the audit trail, but inactive
	var count int64
	require.NoError(t, db.Model(&gmaildomain.GmailCredential{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var activeCount int64
	require.NoError(t, db.Model(&gmaildomain.GmailCredential{}).Where("user_id = ? AND is_active = ?", "user-1", true).Count(&activeCount).Error)
	assert.Equal(t, int64(1), activeCount)
}

func TestFindActiveByUserReturnsNilWhenNoneActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)

	active, err := repo.FindActiveByUser("unknown")
	require.NoError(t, err)
	assert.Nil(t, active)

	cred := newCredential("user-1")
	require.NoError(t, repo.Store(cred))
	require.NoError(t, repo.Deactivate("user-1"))

	active, err = repo.FindActiveByUser("user-1")
	require.NoError(t, err)
	assert.Nil(t, active)

	// Deactivate is idempotent
	require.NoError(t, repo.Deactivate("user-1"))
}

func TestUpdateToken(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)

	cred := newCredential("user-1")
	require.NoError(t, repo.Store(cred))

	newExpiry := time.Now().Add(2 * time.Hour).UnixMilli()
	require.NoError(t, repo.UpdateToken(cred.ID, "new-access", newExpiry))

	active, err := repo.FindActiveByUser("user-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "new-access", active.AccessToken)
	assert.Equal(t, newExpiry, active.ExpiryDate)
	// Refresh token survives an access-token update
	assert.Equal(t, "refresh", active.RefreshToken)
}

func TestMarkAbsorbsDuplicateKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewProcessedEmailRepository(db)

	first := &gmaildomain.ProcessedEmail{
		UserID:         "user-1",
		GmailMessageID: "msg-1",
		EmailSubject:   "Receipt",
		Status:         gmaildomain.StatusProcessed,
	}
	require.NoError(t, repo.Mark(first))

	// A concurrent import writing the same (user, message) pair must be
	// absorbed, not surfaced as an error
	second := &gmaildomain.ProcessedEmail{
		UserID:         "user-1",
		GmailMessageID: "msg-1",
		Status:         gmaildomain.StatusSkipped,
	}
	require.NoError(t, repo.Mark(second))

	var count int64
	require.NoError(t, db.Model(&gmaildomain.ProcessedEmail{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	processed, err := repo.IsProcessed("user-1", "msg-1")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestMarkAllowsSameMessageForDifferentUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewProcessedEmailRepository(db)

	require.NoError(t, repo.Mark(&gmaildomain.ProcessedEmail{UserID: "user-1", GmailMessageID: "msg-1"}))
	require.NoError(t, repo.Mark(&gmaildomain.ProcessedEmail{UserID: "user-2", GmailMessageID: "msg-1"}))

	var count int64
	require.NoError(t, db.Model(&gmaildomain.ProcessedEmail{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestIsProcessedUnknownMessage(t *testing.T) {
	db := newTestDB(t)
	repo := NewProcessedEmailRepository(db)

	processed, err := repo.IsProcessed("user-1", "missing")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestListByUserPaginates(t *testing.T) {
	db := newTestDB(t)
	repo := NewProcessedEmailRepository(db)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Mark(&gmaildomain.ProcessedEmail{
			UserID:         "user-1",
			GmailMessageID: fmt.Sprintf("msg-%d", i),
			ProcessedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Mark(&gmaildomain.ProcessedEmail{UserID: "user-2", GmailMessageID: "other"}))

	page1, total, err := repo.ListByUser("user-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	// Newest first
	assert.Equal(t, "msg-4", page1[0].GmailMessageID)
	assert.Equal(t, "msg-3", page1[1].GmailMessageID)

	page3, _, err := repo.ListByUser("user-1", 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "msg-0", page3[0].GmailMessageID)
}

func TestDeleteByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewProcessedEmailRepository(db)

	require.NoError(t, repo.Mark(&gmaildomain.ProcessedEmail{UserID: "user-1", GmailMessageID: "msg-1"}))
	require.NoError(t, repo.Mark(&gmaildomain.ProcessedEmail{UserID: "user-1", GmailMessageID: "msg-2"}))
	require.NoError(t, repo.Mark(&gmaildomain.ProcessedEmail{UserID: "user-2", GmailMessageID: "msg-3"}))

	deleted, err := repo.DeleteByUser("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	processed, err := repo.IsProcessed("user-2", "msg-3")
	require.NoError(t, err)
	assert.True(t, processed)
}
