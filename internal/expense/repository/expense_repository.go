package repository

import (
	"errors"
	"time"

	expensedomain "finwell-backend/internal/expense/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// expenseRepository implements ExpenseRepository interface
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new instance of expenseRepository
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

func (r *expenseRepository) Create(expense *expensedomain.Expense) error {
	expense.ID = uuid.New().String()
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = time.Now()
	return r.db.Create(expense).Error
}

func (r *expenseRepository) FindExactMatch(userID, title string, amount float64, day time.Time) (*expensedomain.Expense, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var expense expensedomain.Expense
	err := r.db.Where("user_id = ? AND title = ? AND amount = ? AND date >= ? AND date < ?",
		userID, title, amount, dayStart, dayEnd).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) DescriptionContains(userID, substr string) (bool, error) {
	var count int64
	err := r.db.Model(&expensedomain.Expense{}).
		Where("user_id = ? AND description LIKE ?", userID, "%"+substr+"%").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
