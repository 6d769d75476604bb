package database

import (
	"strings"

	"gorm.io/gorm"
)

// KeyPrefix restricts a kv_entries query to keys starting with prefix.
func KeyPrefix(prefix string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if prefix == "" {
			return db
		}
		escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(prefix)
		return db.Where("storage_key LIKE ? ESCAPE '!'", escaped+"%")
	}
}
