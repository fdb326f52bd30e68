package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
)

func phasesOf(titles ...string) []model.Phase {
	out := make([]model.Phase, len(titles))
	for i, title := range titles {
		out[i] = model.Phase{Duration: 10 * (i + 1), SocialForm: "EA", TaskTitle: title}
	}
	return out
}

// ── Timeline 测试 ──

func TestLessonService_Timeline(t *testing.T) {
	svc := NewLessonService(zap.NewNop())

	resp, err := svc.Timeline(context.Background(), &dto.TimelineRequest{StartTime: "08:00", Durations: []int{15, 20, 10}})
	if err != nil {
		t.Fatalf("Timeline 应成功: %v", err)
	}

	want := []string{"08:00 - 08:15", "08:15 - 08:35", "08:35 - 08:45"}
	for i, w := range want {
		if resp.Phases[i].Range != w {
			t.Errorf("第 %d 阶段期望 %s，实际 %s", i+1, w, resp.Phases[i].Range)
		}
	}
	if resp.TotalMinutes != 45 || resp.EndTime.String() != "08:45" {
		t.Errorf("总时长/结束时刻不符: %d %s", resp.TotalMinutes, resp.EndTime)
	}
}

func TestLessonService_Timeline_DefaultStart(t *testing.T) {
	svc := NewLessonService(zap.NewNop())

	resp, err := svc.Timeline(context.Background(), &dto.TimelineRequest{Durations: []int{5}})
	if err != nil {
		t.Fatalf("Timeline 应成功: %v", err)
	}
	if resp.StartTime.String() != "08:00" {
		t.Errorf("期望默认开始时刻 08:00，实际 %s", resp.StartTime)
	}
}

func TestLessonService_Timeline_Invalid(t *testing.T) {
	svc := NewLessonService(zap.NewNop())

	tests := []dto.TimelineRequest{
		{StartTime: "8 Uhr", Durations: []int{10}},
		{StartTime: "25:00", Durations: []int{10}},
		{StartTime: "08:00", Durations: []int{10, -5}},
	}
	for _, req := range tests {
		_, err := svc.Timeline(context.Background(), &req)
		if !errors.Is(err, scheduler.ErrInvalidInput) {
			t.Errorf("%+v: 期望 ErrInvalidInput，实际: %v", req, err)
		}
	}
}

// ── Move / Remove 测试 ──

func TestLessonService_MovePhase(t *testing.T) {
	svc := NewLessonService(zap.NewNop())

	resp, err := svc.MovePhase(context.Background(), &dto.PhaseEditRequest{
		StartTime: "10:00",
		Phases:    phasesOf("Einstieg", "Erarbeitung", "Sicherung"),
		Index:     2,
		Direction: "up",
	})
	if err != nil {
		t.Fatalf("MovePhase 应成功: %v", err)
	}
	if resp.Phases[1].TaskTitle != "Sicherung" || resp.Phases[2].TaskTitle != "Erarbeitung" {
		t.Errorf("移动结果不符: %+v", resp.Phases)
	}
	// 时长随阶段一起移动：10, 30, 20
	if resp.Timeline.Phases[1].Range != "10:10 - 10:40" {
		t.Errorf("时间轴未按新顺序计算: %s", resp.Timeline.Phases[1].Range)
	}
	if len(resp.Affordances) != 3 || resp.Affordances[0].CanMoveUp {
		t.Errorf("可用操作不符: %+v", resp.Affordances)
	}
}

func TestLessonService_MovePhase_Boundary(t *testing.T) {
	svc := NewLessonService(zap.NewNop())

	resp, err := svc.MovePhase(context.Background(), &dto.PhaseEditRequest{
		Phases:    phasesOf("Einstieg", "Sicherung"),
		Index:     1,
		Direction: "down",
	})
	if err != nil {
		t.Fatalf("末项下移应原样返回: %v", err)
	}
	if resp.Phases[1].TaskTitle != "Sicherung" {
		t.Errorf("末项下移不应改变顺序: %+v", resp.Phases)
	}

	_, err = svc.MovePhase(context.Background(), &dto.PhaseEditRequest{Phases: phasesOf("A"), Index: 3})
	if !errors.Is(err, scheduler.ErrIndexOutOfRange) {
		t.Errorf("期望 ErrIndexOutOfRange，实际: %v", err)
	}
}

func TestLessonService_RemovePhase(t *testing.T) {
	svc := NewLessonService(zap.NewNop())

	resp, err := svc.RemovePhase(context.Background(), &dto.PhaseEditRequest{
		Phases: phasesOf("Einstieg", "Erarbeitung"),
		Index:  0,
	})
	if err != nil {
		t.Fatalf("RemovePhase 应成功: %v", err)
	}
	if len(resp.Phases) != 1 || resp.Phases[0].TaskTitle != "Erarbeitung" {
		t.Errorf("删除结果不符: %+v", resp.Phases)
	}
	if resp.Affordances[0].CanRemove {
		t.Error("只剩一项时不可删除")
	}

	_, err = svc.RemovePhase(context.Background(), &dto.PhaseEditRequest{Phases: resp.Phases, Index: 0})
	if !errors.Is(err, scheduler.ErrLastItem) {
		t.Errorf("期望 ErrLastItem，实际: %v", err)
	}
}

func TestLessonService_BuildTimeline_DefaultDuration(t *testing.T) {
	svc := NewLessonService(zap.NewNop())

	plan := &model.LessonPlan{StartTime: "23:50", Phases: []model.Phase{{Duration: 0}, {Duration: 15}}}
	resp, err := svc.BuildTimeline(plan)
	if err != nil {
		t.Fatalf("BuildTimeline 应成功: %v", err)
	}
	if resp.Phases[0].Duration != model.DefaultPhaseDuration {
		t.Errorf("时长为 0 的阶段应按 %d 分钟计，实际 %d", model.DefaultPhaseDuration, resp.Phases[0].Duration)
	}
	if resp.Phases[1].Range != "00:00 - 00:15" {
		t.Errorf("跨午夜应回绕，实际 %s", resp.Phases[1].Range)
	}
}

func TestLessonService_Affordances(t *testing.T) {
	svc := NewLessonService(zap.NewNop())

	if items := svc.Affordances(0).Items; len(items) != 0 {
		t.Errorf("空列表不应有操作: %+v", items)
	}
	items := svc.Affordances(3).Items
	if !items[1].CanMoveUp || !items[1].CanMoveDown || !items[1].CanRemove || items[2].CanMoveDown {
		t.Errorf("可用操作不符: %+v", items)
	}
}
