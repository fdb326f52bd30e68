package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
	"github.com/HansTydecks/fast-lessonplan/internal/service"
	"github.com/HansTydecks/fast-lessonplan/pkg/response"
)

// LessonHandler 教学流程模块 HTTP 处理器
type LessonHandler struct {
	lessonSvc service.LessonService
}

// NewLessonHandler 创建 LessonHandler
func NewLessonHandler(lessonSvc service.LessonService) *LessonHandler {
	return &LessonHandler{lessonSvc: lessonSvc}
}

// Timeline 计算阶段时间段
// POST /api/v1/lessons/timeline
func (h *LessonHandler) Timeline(c *gin.Context) {
	var req dto.TimelineRequest
	if !MustBindJSON(c, &req) {
		return
	}

	result, err := h.lessonSvc.Timeline(c.Request.Context(), &req)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}

	response.OK(c, result)
}

// Affordances 列表每一项的可用操作
// POST /api/v1/lessons/affordances
func (h *LessonHandler) Affordances(c *gin.Context) {
	var req dto.AffordanceRequest
	if !MustBindJSON(c, &req) {
		return
	}

	response.OK(c, h.lessonSvc.Affordances(req.Count))
}

// MovePhase 上移/下移阶段
// POST /api/v1/lessons/phases/move
func (h *LessonHandler) MovePhase(c *gin.Context) {
	var req dto.PhaseEditRequest
	if !MustBindJSON(c, &req) {
		return
	}
	if req.Direction == "" {
		response.BadRequest(c, codeInvalidParams, "direction 不能为空")
		return
	}

	result, err := h.lessonSvc.MovePhase(c.Request.Context(), &req)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}

	response.OK(c, result)
}

// RemovePhase 删除阶段
// POST /api/v1/lessons/phases/remove
func (h *LessonHandler) RemovePhase(c *gin.Context) {
	var req dto.PhaseEditRequest
	if !MustBindJSON(c, &req) {
		return
	}

	result, err := h.lessonSvc.RemovePhase(c.Request.Context(), &req)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *LessonHandler) handleLessonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidInput):
		response.ErrorWithDetails(c, 400, codeInvalidParams, "参数无效", err.Error())
	case errors.Is(err, scheduler.ErrLastItem):
		response.BadRequest(c, 20301, "至少需要保留一个阶段")
	case errors.Is(err, scheduler.ErrIndexOutOfRange):
		response.BadRequest(c, 20302, "阶段下标越界")
	default:
		internalError(c, err)
	}
}
