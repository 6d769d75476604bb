package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/officedesk/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, log logrus.FieldLogger) error {
	log.Info("Running database migrations...")
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed")
	return nil
}
