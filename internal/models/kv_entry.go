package models

import "time"

// KVEntry is one slot of the durable key-value namespace.
type KVEntry struct {
	Key       string    `gorm:"column:storage_key;primarykey;type:varchar(191)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
