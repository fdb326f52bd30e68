package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/exclusion"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
	"github.com/HansTydecks/fast-lessonplan/internal/service"
	"github.com/HansTydecks/fast-lessonplan/pkg/response"
)

// DocumentHandler 计划文档导入导出 HTTP 处理器
type DocumentHandler struct {
	documentSvc service.DocumentService
}

// NewDocumentHandler 创建 DocumentHandler
func NewDocumentHandler(documentSvc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentSvc: documentSvc}
}

// Import 导入计划文档
// POST /api/v1/documents/import
func (h *DocumentHandler) Import(c *gin.Context) {
	var req dto.ImportDocumentRequest
	if !MustBindJSON(c, &req) {
		return
	}

	result, err := h.documentSvc.Import(c.Request.Context(), &req)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OKWithWarnings(c, result, result.Warnings)
}

// Export 生成带版本与时间戳的文档
// POST /api/v1/documents/export
func (h *DocumentHandler) Export(c *gin.Context) {
	var req dto.ExportDocumentRequest
	if !MustBindJSON(c, &req) {
		return
	}

	result, err := h.documentSvc.Export(c.Request.Context(), &req)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *DocumentHandler) handleDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrUnrecognizedFormat):
		response.ErrorWithDetails(c, 400, 20201, "无法识别的文档格式", err.Error())
	case errors.Is(err, service.ErrDocumentNotExportable):
		response.BadRequest(c, 20202, "仅内容的计划需先导入生成日期后再导出")
	case errors.Is(err, service.ErrMissingSettings):
		response.BadRequest(c, 20203, "缺少排课设置")
	case errors.Is(err, service.ErrEmptyContent):
		response.BadRequest(c, 20204, "文档中没有教学内容")
	case errors.Is(err, scheduler.ErrInvalidInput):
		response.ErrorWithDetails(c, 400, codeInvalidParams, "排课参数无效", err.Error())
	case errors.Is(err, exclusion.ErrInvalidRegion):
		response.BadRequest(c, 20101, "无效的地区")
	default:
		internalError(c, err)
	}
}
