package model

// PlannedClass 计划课程表 — 对应 planned_classes
// 学生的自由文本心愿单；不含时间信息，不参与冲突检测
type PlannedClass struct {
	PlannedClassID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID      string `gorm:"type:uuid;not null"                             json:"-"`
	ClassName      string `gorm:"type:varchar(100);not null"                     json:"class_name"`
	Notes          string `gorm:"type:varchar(500);not null;default:''"          json:"notes"`
	BaseModel
}

// TableName 指定表名
func (PlannedClass) TableName() string { return "planned_classes" }
