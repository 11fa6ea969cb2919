package repository

import (
	"errors"
	"time"

	gmaildomain "finwell-backend/internal/gmail/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new instance of credentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) FindActiveByUser(userID string) (*gmaildomain.GmailCredential, error) {
	var cred gmaildomain.GmailCredential
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// Store deactivates prior active credentials and inserts the new one in a
// single transaction, keeping old rows for the audit trail.
func (r *credentialRepository) Store(cred *gmaildomain.GmailCredential) error {
	cred.ID = uuid.New().String()
	cred.IsActive = true
	now := time.Now()
	cred.LastUsed = now
	cred.CreatedAt = now
	cred.UpdatedAt = now

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&gmaildomain.GmailCredential{}).
			Where("user_id = ? AND is_active = ?", cred.UserID, true).
			Updates(map[string]interface{}{"is_active": false, "updated_at": now}).Error; err != nil {
			return err
		}
		return tx.Create(cred).Error
	})
}

func (r *credentialRepository) Deactivate(userID string) error {
	return r.db.Model(&gmaildomain.GmailCredential{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}

func (r *credentialRepository) UpdateToken(id, accessToken string, expiryDate int64) error {
	return r.db.Model(&gmaildomain.GmailCredential{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token": accessToken,
			"expiry_date":  expiryDate,
			"last_used":    time.Now(),
			"updated_at":   time.Now(),
		}).Error
}

func (r *credentialRepository) TouchLastUsed(id string) error {
	return r.db.Model(&gmaildomain.GmailCredential{}).
		Where("id = ?", id).
		Update("last_used", time.Now()).Error
}
