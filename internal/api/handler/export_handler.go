package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/HansTydecks/fast-lessonplan/internal/model"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
	"github.com/HansTydecks/fast-lessonplan/internal/service"
	"github.com/HansTydecks/fast-lessonplan/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// SubjectPlanXLSX 导出课时分配计划表格
// POST /api/v1/export/subject-plan.xlsx
func (h *ExportHandler) SubjectPlanXLSX(c *gin.Context) {
	var plan model.SubjectPlan
	if !MustBindJSON(c, &plan) {
		return
	}

	buf, filename, err := h.exportSvc.ExportSubjectPlanXLSX(c.Request.Context(), &plan)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.File(c, filename, contentTypeXLSX, buf.Bytes())
}

// LessonPlanXLSX 导出教学流程表格
// POST /api/v1/export/lesson-plan.xlsx
func (h *ExportHandler) LessonPlanXLSX(c *gin.Context) {
	var plan model.LessonPlan
	if !MustBindJSON(c, &plan) {
		return
	}

	buf, filename, err := h.exportSvc.ExportLessonPlanXLSX(c.Request.Context(), &plan)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.File(c, filename, contentTypeXLSX, buf.Bytes())
}

// SubjectPlanICS 导出日历
// POST /api/v1/export/subject-plan.ics
func (h *ExportHandler) SubjectPlanICS(c *gin.Context) {
	var plan model.SubjectPlan
	if !MustBindJSON(c, &plan) {
		return
	}

	buf, filename, err := h.exportSvc.ExportSubjectPlanICS(c.Request.Context(), &plan)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.File(c, filename, contentTypeICS, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoRows):
		response.BadRequest(c, 20401, "计划中没有可导出的行")
	case errors.Is(err, scheduler.ErrInvalidInput):
		response.ErrorWithDetails(c, 400, codeInvalidParams, "参数无效", err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		internalError(c, err)
	default:
		internalError(c, err)
	}
}
