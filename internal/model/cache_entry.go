package model

import "time"

// CacheEntry 假期缓存持久化表，对应 exclusion_cache_entries
//
// Value 保存 {periods, timestamp} JSON，过期判断由上层完成；
// UpdatedAt 只用于后台清理长期未刷新的行。
type CacheEntry struct {
	Key       string    `gorm:"column:cache_key;primaryKey;type:varchar(255)" json:"key"`
	Value     string    `gorm:"type:text;not null"                             json:"value"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"       json:"updated_at"`
}

// TableName 指定表名
func (CacheEntry) TableName() string { return "exclusion_cache_entries" }
