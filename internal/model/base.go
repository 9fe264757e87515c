package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
// 匿名会话场景下无操作人概念，仅保留时间戳
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
