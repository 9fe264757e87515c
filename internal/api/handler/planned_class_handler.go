package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Bryne19/deanza-course-planner/internal/dto"
	"github.com/Bryne19/deanza-course-planner/internal/service"
	apperrors "github.com/Bryne19/deanza-course-planner/pkg/errors"
	"github.com/Bryne19/deanza-course-planner/pkg/response"
)

// PlannedClassHandler 计划课程模块 HTTP 处理器
type PlannedClassHandler struct {
	plannedSvc service.PlannedClassService
}

// NewPlannedClassHandler 创建 PlannedClassHandler
func NewPlannedClassHandler(plannedSvc service.PlannedClassService) *PlannedClassHandler {
	return &PlannedClassHandler{plannedSvc: plannedSvc}
}

// Create 添加计划课程
// POST /api/v1/planned-classes
func (h *PlannedClassHandler) Create(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.CreatePlannedClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数无效: "+err.Error())
		return
	}

	resp, err := h.plannedSvc.Create(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handlePlannedClassError(c, err)
		return
	}

	response.Created(c, resp)
}

// List 查询计划课程
// GET /api/v1/planned-classes
func (h *PlannedClassHandler) List(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	classes, err := h.plannedSvc.List(c.Request.Context(), sessionID)
	if err != nil {
		h.handlePlannedClassError(c, err)
		return
	}

	response.OK(c, gin.H{"planned_classes": classes})
}

// Update 更新计划课程
// PUT /api/v1/planned-classes/:id
func (h *PlannedClassHandler) Update(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.UpdatePlannedClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数无效: "+err.Error())
		return
	}

	resp, err := h.plannedSvc.Update(c.Request.Context(), sessionID, c.Param("id"), &req)
	if err != nil {
		h.handlePlannedClassError(c, err)
		return
	}

	response.OK(c, resp)
}

// Delete 删除计划课程
// DELETE /api/v1/planned-classes/:id
func (h *PlannedClassHandler) Delete(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	if err := h.plannedSvc.Delete(c.Request.Context(), sessionID, c.Param("id")); err != nil {
		h.handlePlannedClassError(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// Clear 清空计划课程
// POST /api/v1/planned-classes/clear
func (h *PlannedClassHandler) Clear(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	if err := h.plannedSvc.Clear(c.Request.Context(), sessionID); err != nil {
		h.handlePlannedClassError(c, err)
		return
	}

	response.OK(c, gin.H{"cleared": true})
}

func (h *PlannedClassHandler) handlePlannedClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidClassName):
		response.BadRequest(c, 13001, "课程名称不合法：仅限字母、数字、空格、点、连字符，最长 100 字符")
	case errors.Is(err, service.ErrNotesTooLong):
		response.BadRequest(c, 13002, "备注最长 500 字符")
	case errors.Is(err, service.ErrPlannedClassNotFound):
		response.NotFound(c, 13101, "计划课程不存在")
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		response.ServiceUnavailable(c, 50300, "存储服务暂不可用，请稍后再试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/planned_class_handler.go
