package dto

// ── 计划课程模块 DTO ──

// CreatePlannedClassRequest 添加计划课程请求
type CreatePlannedClassRequest struct {
	ClassName string `json:"class_name" binding:"required"`
	Notes     string `json:"notes"`
}

// UpdatePlannedClassRequest 更新计划课程请求
type UpdatePlannedClassRequest struct {
	ClassName string `json:"class_name" binding:"required"`
	Notes     string `json:"notes"`
}

// PlannedClassResponse 计划课程响应
type PlannedClassResponse struct {
	ID        string `json:"id"`
	ClassName string `json:"class_name"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
