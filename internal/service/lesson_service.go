package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
)

// LessonService 单节课教学流程业务接口
type LessonService interface {
	// Timeline 按开始时刻与各阶段时长计算时间段
	Timeline(ctx context.Context, req *dto.TimelineRequest) (*dto.TimelineResponse, error)
	// Affordances 长度为 n 的列表每一项的可用操作
	Affordances(n int) *dto.AffordanceResponse
	// MovePhase 上移/下移一个阶段
	MovePhase(ctx context.Context, req *dto.PhaseEditRequest) (*dto.PhaseListResponse, error)
	// RemovePhase 删除一个阶段，至少保留一个
	RemovePhase(ctx context.Context, req *dto.PhaseEditRequest) (*dto.PhaseListResponse, error)
	// BuildTimeline 为完整的教学流程计划计算时间轴
	BuildTimeline(plan *model.LessonPlan) (*dto.TimelineResponse, error)
}

type lessonService struct {
	logger *zap.Logger
}

// NewLessonService 创建 LessonService 实例
func NewLessonService(logger *zap.Logger) LessonService {
	return &lessonService{logger: logger}
}

func (s *lessonService) Timeline(_ context.Context, req *dto.TimelineRequest) (*dto.TimelineResponse, error) {
	return buildTimeline(req.StartTime, req.Durations)
}

func (s *lessonService) Affordances(n int) *dto.AffordanceResponse {
	return &dto.AffordanceResponse{Items: scheduler.Affordances(n)}
}

func (s *lessonService) MovePhase(_ context.Context, req *dto.PhaseEditRequest) (*dto.PhaseListResponse, error) {
	dir := scheduler.Down
	if req.Direction == "up" {
		dir = scheduler.Up
	}
	phases, err := scheduler.Move(req.Phases, req.Index, dir)
	if err != nil {
		return nil, err
	}
	return s.phaseList(req.StartTime, phases)
}

func (s *lessonService) RemovePhase(_ context.Context, req *dto.PhaseEditRequest) (*dto.PhaseListResponse, error) {
	phases, err := scheduler.Remove(req.Phases, req.Index)
	if err != nil {
		return nil, err
	}
	return s.phaseList(req.StartTime, phases)
}

func (s *lessonService) BuildTimeline(plan *model.LessonPlan) (*dto.TimelineResponse, error) {
	return buildTimeline(plan.StartTime, phaseDurations(plan.Phases))
}

func (s *lessonService) phaseList(startTime string, phases []model.Phase) (*dto.PhaseListResponse, error) {
	timeline, err := buildTimeline(startTime, phaseDurations(phases))
	if err != nil {
		return nil, err
	}
	return &dto.PhaseListResponse{
		Phases:      phases,
		Timeline:    timeline,
		Affordances: scheduler.Affordances(len(phases)),
	}, nil
}

// buildTimeline 开始时刻为空时取 08:00
func buildTimeline(startTime string, durations []int) (*dto.TimelineResponse, error) {
	if startTime == "" {
		startTime = model.DefaultStartTime
	}
	start, err := scheduler.ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	ranges, err := scheduler.ComputeTimeline(start, durations)
	if err != nil {
		return nil, err
	}

	phases := make([]dto.PhaseTime, 0, len(ranges))
	for i, r := range ranges {
		phases = append(phases, dto.PhaseTime{
			Index:    i,
			Start:    r.Start,
			End:      r.End,
			Duration: r.Duration,
			Range:    r.String(),
		})
	}

	total := scheduler.TotalMinutes(durations)
	return &dto.TimelineResponse{
		StartTime:    start,
		EndTime:      start.Add(total),
		TotalMinutes: total,
		Phases:       phases,
	}, nil
}

// phaseDurations 时长非正的阶段按默认 10 分钟计
func phaseDurations(phases []model.Phase) []int {
	out := make([]int, len(phases))
	for i, p := range phases {
		out[i] = p.Duration
		if out[i] <= 0 {
			out[i] = model.DefaultPhaseDuration
		}
	}
	return out
}
