package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/officedesk/internal/database"
	"github.com/yukikurage/officedesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKeyValueRepository is a GORM implementation of KeyValueRepository
// backed by the kv_entries table.
type GormKeyValueRepository struct {
	db *gorm.DB
}

// NewGormKeyValueRepository creates a new KeyValueRepository
func NewGormKeyValueRepository(db *gorm.DB) KeyValueRepository {
	return &GormKeyValueRepository{db: db}
}

func (r *GormKeyValueRepository) Get(key string) (string, bool, error) {
	var entry models.KVEntry
	if err := r.db.Where("storage_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *GormKeyValueRepository) Set(key, value string) error {
	entry := models.KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (r *GormKeyValueRepository) Delete(key string) error {
	return r.db.Where("storage_key = ?", key).Delete(&models.KVEntry{}).Error
}

func (r *GormKeyValueRepository) Keys(prefix string) ([]string, error) {
	var keys []string
	err := r.db.Model(&models.KVEntry{}).
		Scopes(database.KeyPrefix(prefix)).
		Order("storage_key ASC").
		Pluck("storage_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
