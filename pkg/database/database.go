package database

import (
	"finwell-backend/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresConnection opens the application database. TranslateError is
// enabled so duplicate-key violations surface as gorm.ErrDuplicatedKey, which
// the processed-email repository relies on to absorb concurrent marker writes.
func NewPostgresConnection(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
}
