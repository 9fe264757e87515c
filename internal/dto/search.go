package dto

import "github.com/Bryne19/deanza-course-planner/internal/model"

// ── 课程搜索模块 DTO ──

// SearchRequest 课程搜索请求
type SearchRequest struct {
	Department string `json:"department"  binding:"required,min=1,max=10"`
	CourseCode string `json:"course_code" binding:"required,min=1,max=10"`
	Term       string `json:"term"        binding:"omitempty,max=10"`
}

// SearchResponse 课程搜索响应
// Sections 按评分降序排列，无评分的排在最后
type SearchResponse struct {
	CourseName string            `json:"course_name"`
	Term       string            `json:"term"`
	Sections   []SectionResponse `json:"courses"`
}

// SectionResponse 单个开课班次响应
// ratings 缺失表示"未找到评分"（正常情况），并非解析失败
type SectionResponse struct {
	CRN       string                  `json:"crn"`
	Course    string                  `json:"course"`
	Professor string                  `json:"professor"`
	ClassTime string                  `json:"class_time"`
	Format    string                  `json:"format"`
	Ratings   *model.ProfessorRatings `json:"ratings,omitempty"`
	TimeData  model.MeetingTime       `json:"time_data"`
}
