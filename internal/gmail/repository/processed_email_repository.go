package repository

import (
	"errors"
	"time"

	gmaildomain "finwell-backend/internal/gmail/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// processedEmailRepository implements ProcessedEmailRepository interface
type processedEmailRepository struct {
	db *gorm.DB
}

// NewProcessedEmailRepository creates a new instance of processedEmailRepository
func NewProcessedEmailRepository(db *gorm.DB) ProcessedEmailRepository {
	return &processedEmailRepository{
		db: db,
	}
}

func (r *processedEmailRepository) IsProcessed(userID, messageID string) (bool, error) {
	var record gmaildomain.ProcessedEmail
	err := r.db.Where("user_id = ? AND gmail_message_id = ?", userID, messageID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *processedEmailRepository) Mark(record *gmaildomain.ProcessedEmail) error {
	record.ID = uuid.New().String()
	now := time.Now()
	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = now
	}
	if record.Status == "" {
		record.Status = gmaildomain.StatusProcessed
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	err := r.db.Create(record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another import already marked this message; the constraint wins.
		return nil
	}
	return err
}

func (r *processedEmailRepository) ListByUser(userID string, page, limit int) ([]*gmaildomain.ProcessedEmail, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var total int64
	if err := r.db.Model(&gmaildomain.ProcessedEmail{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*gmaildomain.ProcessedEmail
	err := r.db.Where("user_id = ?", userID).
		Order("processed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *processedEmailRepository) DeleteByUser(userID string) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&gmaildomain.ProcessedEmail{})
	return result.RowsAffected, result.Error
}
