package dto

// ── 课表模块 DTO ──

// AddSectionRequest 加课请求
// raw 字段来自搜索结果，时间字符串无格式约定
type AddSectionRequest struct {
	CRN       string `json:"crn"        binding:"required,min=1,max=10"`
	Course    string `json:"course"     binding:"required,min=1,max=50"`
	Professor string `json:"professor"  binding:"omitempty,max=100"`
	ClassTime string `json:"class_time" binding:"omitempty,max=100"`
	Format    string `json:"format"     binding:"omitempty,max=20"`
	// 搜索时附带的评分快照，可缺省
	Ratings *RatingsSnapshot `json:"ratings"`
}

// RatingsSnapshot 加课时附带的评分快照
type RatingsSnapshot struct {
	Rating     float64 `json:"rating"`
	Difficulty float64 `json:"difficulty"`
	NumRatings int     `json:"num_ratings"`
	URL        string  `json:"url"`
}

// SectionBrief 冲突中引用的课程摘要
type SectionBrief struct {
	CRN       string `json:"crn"`
	Course    string `json:"course"`
	Professor string `json:"professor"`
}

// Conflict 一对课程的时间冲突（派生数据，每次读取重算，从不缓存）
type Conflict struct {
	Section1 SectionBrief `json:"course1"`
	Section2 SectionBrief `json:"course2"`
	Days     []string     `json:"conflicting_days"` // 双方重叠的工作日
	Time1    string       `json:"time1"`
	Time2    string       `json:"time2"`
}

// AddSectionResponse 加课响应
// Conflicts 仅包含新加课程引入的冲突
type AddSectionResponse struct {
	Added     bool       `json:"added"`
	Replaced  bool       `json:"replaced"` // 同 CRN 重复加课时为 true（替换旧记录）
	Conflicts []Conflict `json:"conflicts"`
}

// RemoveSectionResponse 退课响应
type RemoveSectionResponse struct {
	Removed   bool       `json:"removed"`
	Conflicts []Conflict `json:"conflicts"` // 退课后剩余课表的完整冲突集
}

// ScheduleResponse 课表响应：当前课程 + 完整冲突集
type ScheduleResponse struct {
	Sections  []SectionResponse `json:"courses"`
	Conflicts []Conflict        `json:"conflicts"`
}
