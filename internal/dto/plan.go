package dto

import (
	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/exclusion"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
)

// ── 排课模块 DTO ──

// ScheduleRequest 排课请求；start_date 缺失由排课引擎报错
type ScheduleRequest struct {
	StartDate        calendar.Date `json:"start_date"`
	TotalHours       int           `json:"total_hours"       binding:"required,min=1,max=10000"`
	HoursPerWeek     int           `json:"hours_per_week"    binding:"required,min=1,max=10000"`
	Weekdays         []int         `json:"weekdays"          binding:"required,min=1,dive,min=1,max=7"`
	Region           string        `json:"region"            binding:"omitempty,max=64"`
	ExcludeVacations bool          `json:"exclude_vacations"`
	ExcludeHolidays  bool          `json:"exclude_holidays"`
}

// ScheduleSettings 内容导入时的排课设置（总课时由内容条数推导）
type ScheduleSettings struct {
	StartDate        calendar.Date `json:"start_date"`
	HoursPerWeek     int           `json:"hours_per_week"    binding:"omitempty,min=1,max=10000"`
	Weekdays         []int         `json:"weekdays"          binding:"omitempty,dive,min=1,max=7"`
	Region           string        `json:"region"            binding:"omitempty,max=64"`
	ExcludeVacations bool          `json:"exclude_vacations"`
	ExcludeHolidays  bool          `json:"exclude_holidays"`
}

// PlanSummary 排课统计（预览只返回这一部分）
type PlanSummary struct {
	StartDate        calendar.Date  `json:"start_date"`
	EndDate          *calendar.Date `json:"end_date"`
	EndDateDE        string         `json:"end_date_de,omitempty"`
	MatchedDayCount  int            `json:"matched_day_count"`
	ExcludedDayCount int            `json:"excluded_day_count"`
	RequiredDayCount int            `json:"required_day_count"`
	HoursPerDay      int            `json:"hours_per_day"`
	AssignedHours    int            `json:"assigned_hours"`
	Truncated        bool           `json:"truncated"`
	Region           string         `json:"region,omitempty"`
	ExclusionsLoaded bool           `json:"exclusions_loaded"`
}

// ScheduleResponse 排课结果
type ScheduleResponse struct {
	PlanSummary
	Events []scheduler.LessonEvent `json:"events"`

	Warnings []string `json:"-"`
}

// ── 假期模块 DTO ──

// ExclusionQuery GET /exclusions 查询参数
type ExclusionQuery struct {
	Region    string `form:"region"     binding:"required,max=64"`
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date"`
}

// ExclusionResponse 假期与节假日区间
type ExclusionResponse struct {
	Region    string        `json:"region"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	exclusion.Windows
}

// RegionsResponse 支持的地区
type RegionsResponse struct {
	Regions []string `json:"regions"`
}
