package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Bryne19/deanza-course-planner/internal/model"
)

// PlannedClassRepository 计划课程数据访问接口
type PlannedClassRepository interface {
	Create(ctx context.Context, pc *model.PlannedClass) error
	// ListBySession 按创建时间倒序返回会话的全部计划课程
	ListBySession(ctx context.Context, sessionID string) ([]model.PlannedClass, error)
	// GetByID 按 ID 查询，限定在同一会话内
	GetByID(ctx context.Context, sessionID, id string) (*model.PlannedClass, error)
	Update(ctx context.Context, pc *model.PlannedClass) error
	// Delete 返回是否存在该记录
	Delete(ctx context.Context, sessionID, id string) (bool, error)
	Clear(ctx context.Context, sessionID string) error
}

type plannedClassRepo struct {
	db *gorm.DB
}

// NewPlannedClassRepo 创建 PlannedClassRepository 实例
func NewPlannedClassRepo(db *gorm.DB) PlannedClassRepository {
	return &plannedClassRepo{db: db}
}

func (r *plannedClassRepo) Create(ctx context.Context, pc *model.PlannedClass) error {
	return r.db.WithContext(ctx).Create(pc).Error
}

func (r *plannedClassRepo) ListBySession(ctx context.Context, sessionID string) ([]model.PlannedClass, error) {
	var classes []model.PlannedClass
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&classes).Error
	return classes, err
}

func (r *plannedClassRepo) GetByID(ctx context.Context, sessionID, id string) (*model.PlannedClass, error) {
	var pc model.PlannedClass
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND planned_class_id = ?", sessionID, id).
		First(&pc).Error
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

func (r *plannedClassRepo) Update(ctx context.Context, pc *model.PlannedClass) error {
	return r.db.WithContext(ctx).Save(pc).Error
}

func (r *plannedClassRepo) Delete(ctx context.Context, sessionID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("session_id = ? AND planned_class_id = ?", sessionID, id).
		Delete(&model.PlannedClass{})
	return res.RowsAffected > 0, res.Error
}

func (r *plannedClassRepo) Clear(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.PlannedClass{}).Error
}
