package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/exclusion"
	"github.com/HansTydecks/fast-lessonplan/internal/scheduler"
	"github.com/HansTydecks/fast-lessonplan/internal/service"
	"github.com/HansTydecks/fast-lessonplan/pkg/response"
)

// PlanHandler 排课模块 HTTP 处理器
type PlanHandler struct {
	planSvc service.PlanService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// Schedule 生成课次列表
// POST /api/v1/plans/schedule
func (h *PlanHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if !MustBindJSON(c, &req) {
		return
	}

	result, err := h.planSvc.Schedule(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OKWithWarnings(c, result, result.Warnings)
}

// Preview 只返回结束日期与统计
// POST /api/v1/plans/preview
func (h *PlanHandler) Preview(c *gin.Context) {
	var req dto.ScheduleRequest
	if !MustBindJSON(c, &req) {
		return
	}

	result, err := h.planSvc.Preview(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OKWithWarnings(c, result.PlanSummary, result.Warnings)
}

// Exclusions 查询假期与节假日
// GET /api/v1/exclusions?region=&start_date=&end_date=
func (h *PlanHandler) Exclusions(c *gin.Context) {
	var q dto.ExclusionQuery
	if !MustBindQuery(c, &q) {
		return
	}

	result, err := h.planSvc.Exclusions(c.Request.Context(), &q)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

// Regions 支持的地区
// GET /api/v1/exclusions/regions
func (h *PlanHandler) Regions(c *gin.Context) {
	response.OK(c, dto.RegionsResponse{Regions: h.planSvc.Regions()})
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidInput):
		response.ErrorWithDetails(c, 400, codeInvalidParams, "排课参数无效", err.Error())
	case errors.Is(err, exclusion.ErrInvalidRegion):
		response.BadRequest(c, 20101, "无效的地区")
	case errors.Is(err, exclusion.ErrFetch):
		response.BadGateway(c, 20102, "假期数据获取失败")
	case errors.Is(err, exclusion.ErrInvalidRange):
		response.ErrorWithDetails(c, 400, 20103, "无效的日期区间", err.Error())
	case errors.Is(err, service.ErrMissingSettings):
		response.BadRequest(c, 20203, "缺少排课设置")
	default:
		internalError(c, err)
	}
}
