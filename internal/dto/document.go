package dto

import (
	"encoding/json"

	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// ── 文档导入导出 DTO ──

// ImportDocumentRequest 导入请求；仅内容的计划需要 settings 生成日期
type ImportDocumentRequest struct {
	Document json.RawMessage   `json:"document" binding:"required"`
	Settings *ScheduleSettings `json:"settings"`
}

// ImportDocumentResponse 导入结果，按 kind 填充其一
type ImportDocumentResponse struct {
	Kind        model.DocumentKind `json:"kind"`
	SubjectPlan *model.SubjectPlan `json:"subject_plan,omitempty"`
	LessonPlan  *model.LessonPlan  `json:"lesson_plan,omitempty"`
	Timeline    *TimelineResponse  `json:"timeline,omitempty"`
	Summary     *PlanSummary       `json:"summary,omitempty"`

	Warnings []string `json:"-"`
}

// ExportDocumentRequest 导出请求
type ExportDocumentRequest struct {
	Document json.RawMessage `json:"document" binding:"required"`
}

// ExportDocumentResponse 带版本与时间戳的文档及建议文件名
type ExportDocumentResponse struct {
	FileName string         `json:"file_name"`
	Document model.Document `json:"document"`
}
