package repository

import (
	"fmt"
	"testing"
	"time"

	expensedomain "finwell-backend/internal/expense/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:expenserepo%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&expensedomain.Expense{}))
	return db
}

func TestFindExactMatchSameCalendarDay(t *testing.T) {
	db := newTestDB(t)
	repo := NewExpenseRepository(db)

	expense := &expensedomain.Expense{
		UserID:   "user-1",
		Title:    "Amazon - ₹500",
		Amount:   500,
		Date:     time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC),
		Category: expensedomain.CategoryGmailImport,
	}
	require.NoError(t, repo.Create(expense))

	// A different time on the same day still matches
	match, err := repo.FindExactMatch("user-1", "Amazon - ₹500", 500, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, expense.ID, match.ID)

	// The next day does not
	match, err = repo.FindExactMatch("user-1", "Amazon - ₹500", 500, time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, match)

	// Neither does a different amount, title or user
	match, err = repo.FindExactMatch("user-1", "Amazon - ₹500", 600, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, match)

	match, err = repo.FindExactMatch("user-2", "Amazon - ₹500", 500, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestDescriptionContains(t *testing.T) {
	db := newTestDB(t)
	repo := NewExpenseRepository(db)

	require.NoError(t, repo.Create(&expensedomain.Expense{
		UserID:      "user-1",
		Title:       "Gmail Import",
		Amount:      250,
		Date:        time.Now(),
		Description: "Imported from Gmail | Message ID: abc123 | Vendor: Amazon",
	}))

	found, err := repo.DescriptionContains("user-1", "abc123")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.DescriptionContains("user-1", "zzz999")
	require.NoError(t, err)
	assert.False(t, found)

	// Scoped per user
	found, err = repo.DescriptionContains("user-2", "abc123")
	require.NoError(t, err)
	assert.False(t, found)
}
