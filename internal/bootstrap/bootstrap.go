// Package bootstrap 按配置组装假期数据源、缓存后端与 Service，供 server 与 planctl 共用。
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/HansTydecks/fast-lessonplan/config"
	"github.com/HansTydecks/fast-lessonplan/internal/exclusion"
	"github.com/HansTydecks/fast-lessonplan/internal/metrics"
	"github.com/HansTydecks/fast-lessonplan/internal/repository"
	"github.com/HansTydecks/fast-lessonplan/internal/service"
	"github.com/HansTydecks/fast-lessonplan/pkg/database"
	"github.com/HansTydecks/fast-lessonplan/pkg/redis"
)

// purgeInterval 过期缓存行清理周期
const purgeInterval = time.Hour

// App 组装完成的依赖
type App struct {
	Store   *exclusion.Store
	Service *service.Service
	// Redis 仅 cache_backend=redis 时非 nil，同时用于接口限流
	Redis *redis.Client

	db      *gorm.DB
	cache   repository.CacheEntryRepository
	ttl     time.Duration
	logger  *zap.Logger
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New 按配置创建 App；m 为 nil 时不记录指标
func New(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*App, error) {
	app := &App{ttl: cfg.Calendar.CacheTTL, logger: logger}

	kv, err := app.openKV(cfg)
	if err != nil {
		return nil, err
	}

	src, err := NewSource(&cfg.Calendar)
	if err != nil {
		app.Close()
		return nil, err
	}

	opts := []exclusion.Option{exclusion.WithRegions(cfg.Calendar.Regions)}
	var recorder service.ScheduleRecorder
	if m != nil {
		opts = append(opts, exclusion.WithRecorder(m))
		recorder = m
	}
	app.Store = exclusion.NewStore(src, kv, cfg.Calendar.CacheTTL, logger, opts...)
	app.Service = service.NewService(cfg, app.Store, recorder, logger)

	logger.Info("假期数据源已就绪",
		zap.String("source", src.Name()),
		zap.String("cache_backend", cfg.Calendar.CacheBackend),
		zap.Duration("cache_ttl", cfg.Calendar.CacheTTL),
	)
	return app, nil
}

// NewSource 按 calendar.source 创建上游数据源
func NewSource(cfg *config.CalendarConfig) (exclusion.Source, error) {
	switch cfg.Source {
	case "api":
		return exclusion.NewHTTPSource(cfg.BaseURL, cfg.Timeout), nil
	case "ics":
		return exclusion.NewICSSource(cfg.ICSURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("未知的假期数据源: %s", cfg.Source)
	}
}

func (a *App) openKV(cfg *config.Config) (exclusion.KVStore, error) {
	switch cfg.Calendar.CacheBackend {
	case "redis":
		rdb, err := redis.NewClient(&cfg.Redis, cfg.Calendar.CacheTTL, a.logger)
		if err != nil {
			// Redis 不可用时降级为进程内缓存，不中断启动
			a.logger.Warn("Redis 连接失败，假期缓存降级为进程内缓存，接口限流不可用", zap.Error(err))
			return exclusion.NewMemoryKV(), nil
		}
		a.Redis = rdb
		return rdb, nil

	case "postgres":
		db, err := database.NewDB(&cfg.Database, a.logger)
		if err != nil {
			return nil, err
		}
		a.db = db

		sqlDB, err := db.DB()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		if err := database.RunMigrations(sqlDB, a.logger); err != nil {
			a.Close()
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}

		a.cache = repository.NewRepository(db).CacheEntry
		return a.cache, nil

	default:
		return exclusion.NewMemoryKV(), nil
	}
}

// StartPurge 定期删除超过 TTL 的缓存行（仅 postgres 后端）
func (a *App) StartPurge() {
	if a.cache == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.stopped = make(chan struct{})

	go func() {
		defer close(a.stopped)
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.purge(ctx)
			}
		}
	}()
}

func (a *App) purge(ctx context.Context) {
	n, err := a.cache.DeleteOlderThan(ctx, time.Now().Add(-a.ttl))
	if err != nil {
		a.logger.Warn("清理过期假期缓存失败", zap.Error(err))
		return
	}
	if n > 0 {
		a.logger.Info("已清理过期假期缓存", zap.Int64("rows", n))
	}
}

// Close 停止后台任务并关闭连接
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		<-a.stopped
		a.cancel = nil
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
		a.db = nil
	}
	if a.Redis != nil {
		a.Redis.Close()
		a.Redis = nil
	}
}
