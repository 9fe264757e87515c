package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Bryne19/deanza-course-planner/internal/model"
)

// SectionRepository 已选课程数据访问接口
type SectionRepository interface {
	// ListBySession 按插入顺序返回会话的全部已选课程
	ListBySession(ctx context.Context, sessionID string) ([]model.Section, error)
	// Replace 写入课程；同 CRN 已存在时先删除旧记录再追加（替换语义，
	// 新记录排到末尾）。返回是否发生了替换。
	Replace(ctx context.Context, section *model.Section) (bool, error)
	// Delete 按 CRN 删除；返回是否存在该记录
	Delete(ctx context.Context, sessionID, crn string) (bool, error)
	// Clear 清空会话的全部已选课程
	Clear(ctx context.Context, sessionID string) error
}

type sectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo 创建 SectionRepository 实例
func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) ListBySession(ctx context.Context, sessionID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) Replace(ctx context.Context, section *model.Section) (bool, error) {
	replaced := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("session_id = ? AND crn = ?", section.SessionID, section.CRN).
			Delete(&model.Section{})
		if res.Error != nil {
			return res.Error
		}
		replaced = res.RowsAffected > 0

		// 追加到末尾：position = 当前最大值 + 1
		var maxPos *int
		if err := tx.Model(&model.Section{}).
			Where("session_id = ?", section.SessionID).
			Select("MAX(position)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		section.Position = 1
		if maxPos != nil {
			section.Position = *maxPos + 1
		}

		return tx.Create(section).Error
	})
	return replaced, err
}

func (r *sectionRepo) Delete(ctx context.Context, sessionID, crn string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("session_id = ? AND crn = ?", sessionID, crn).
		Delete(&model.Section{})
	return res.RowsAffected > 0, res.Error
}

func (r *sectionRepo) Clear(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.Section{}).Error
}
