package dto

import (
	"github.com/HansTydecks/fast-lessonplan/internal/model"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
)

// ── 教学流程模块 DTO ──

// TimelineRequest 计算阶段时间段；start_time 为空时默认 08:00
type TimelineRequest struct {
	StartTime string `json:"start_time" binding:"omitempty,max=5"`
	Durations []int  `json:"durations"  binding:"dive,max=1440"`
}

// PhaseTime 单个阶段的时间段
type PhaseTime struct {
	Index    int                 `json:"index"`
	Start    scheduler.ClockTime `json:"start"`
	End      scheduler.ClockTime `json:"end"`
	Duration int                 `json:"duration"`
	Range    string              `json:"range"`
}

// TimelineResponse 时间轴
type TimelineResponse struct {
	StartTime    scheduler.ClockTime `json:"start_time"`
	EndTime      scheduler.ClockTime `json:"end_time"`
	TotalMinutes int                 `json:"total_minutes"`
	Phases       []PhaseTime         `json:"phases"`
}

// AffordanceRequest 列表操作可用性
type AffordanceRequest struct {
	Count int `json:"count" binding:"min=0,max=1000"`
}

// AffordanceResponse 每一项的可用操作
type AffordanceResponse struct {
	Items []scheduler.Affordance `json:"items"`
}

// PhaseEditRequest 阶段移动/删除请求
type PhaseEditRequest struct {
	StartTime string        `json:"start_time" binding:"omitempty,max=5"`
	Phases    []model.Phase `json:"phases"     binding:"required,min=1"`
	Index     int           `json:"index"      binding:"min=0"`
	Direction string        `json:"direction"  binding:"omitempty,oneof=up down"`
}

// PhaseListResponse 编辑后的阶段列表及其时间轴
type PhaseListResponse struct {
	Phases      []model.Phase          `json:"phases"`
	Timeline    *TimelineResponse      `json:"timeline"`
	Affordances []scheduler.Affordance `json:"affordances"`
}
