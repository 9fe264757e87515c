package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Bryne19/deanza-course-planner/internal/dto"
	"github.com/Bryne19/deanza-course-planner/internal/model"
	"github.com/Bryne19/deanza-course-planner/internal/repository"
)

// ── 计划课程模块业务错误 ──

var (
	ErrPlannedClassNotFound = errors.New("计划课程不存在")
	ErrInvalidClassName     = errors.New("课程名称不合法")
	ErrNotesTooLong         = errors.New("备注超出长度限制")
)

const (
	maxClassNameLen = 100
	maxNotesLen     = 500
)

// 课程名白名单：字母、数字、空格、点、连字符
var classNameRe = regexp.MustCompile(`^[A-Za-z0-9 .\-]+$`)

// PlannedClassService 计划课程（心愿单）业务接口
type PlannedClassService interface {
	Create(ctx context.Context, sessionID string, req *dto.CreatePlannedClassRequest) (*dto.PlannedClassResponse, error)
	List(ctx context.Context, sessionID string) ([]dto.PlannedClassResponse, error)
	Update(ctx context.Context, sessionID, id string, req *dto.UpdatePlannedClassRequest) (*dto.PlannedClassResponse, error)
	Delete(ctx context.Context, sessionID, id string) error
	Clear(ctx context.Context, sessionID string) error
}

type plannedClassService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlannedClassService 创建 PlannedClassService 实例
func NewPlannedClassService(repo *repository.Repository, logger *zap.Logger) PlannedClassService {
	return &plannedClassService{repo: repo, logger: logger}
}

func (s *plannedClassService) Create(ctx context.Context, sessionID string, req *dto.CreatePlannedClassRequest) (*dto.PlannedClassResponse, error) {
	name, notes, err := validatePlannedClass(req.ClassName, req.Notes)
	if err != nil {
		return nil, err
	}

	pc := model.PlannedClass{
		SessionID: sessionID,
		ClassName: name,
		Notes:     notes,
	}
	if err := s.repo.PlannedClass.Create(ctx, &pc); err != nil {
		s.logger.Error("创建计划课程失败", zap.Error(err))
		return nil, storageErr(err)
	}

	resp := toPlannedClassResponse(&pc)
	return &resp, nil
}

func (s *plannedClassService) List(ctx context.Context, sessionID string) ([]dto.PlannedClassResponse, error) {
	classes, err := s.repo.PlannedClass.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err)
	}
	result := make([]dto.PlannedClassResponse, 0, len(classes))
	for i := range classes {
		result = append(result, toPlannedClassResponse(&classes[i]))
	}
	return result, nil
}

func (s *plannedClassService) Update(ctx context.Context, sessionID, id string, req *dto.UpdatePlannedClassRequest) (*dto.PlannedClassResponse, error) {
	name, notes, err := validatePlannedClass(req.ClassName, req.Notes)
	if err != nil {
		return nil, err
	}

	pc, err := s.repo.PlannedClass.GetByID(ctx, sessionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlannedClassNotFound
		}
		return nil, storageErr(err)
	}

	pc.ClassName = name
	pc.Notes = notes
	if err := s.repo.PlannedClass.Update(ctx, pc); err != nil {
		s.logger.Error("更新计划课程失败", zap.Error(err), zap.String("id", id))
		return nil, storageErr(err)
	}

	resp := toPlannedClassResponse(pc)
	return &resp, nil
}

func (s *plannedClassService) Delete(ctx context.Context, sessionID, id string) error {
	removed, err := s.repo.PlannedClass.Delete(ctx, sessionID, id)
	if err != nil {
		return storageErr(err)
	}
	if !removed {
		return ErrPlannedClassNotFound
	}
	return nil
}

func (s *plannedClassService) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.PlannedClass.Clear(ctx, sessionID); err != nil {
		s.logger.Error("清空计划课程失败", zap.Error(err))
		return storageErr(err)
	}
	return nil
}

// validatePlannedClass 校验并规整名称与备注
func validatePlannedClass(name, notes string) (string, string, error) {
	name = strings.TrimSpace(name)
	notes = strings.TrimSpace(notes)

	if name == "" || len(name) > maxClassNameLen || !classNameRe.MatchString(name) {
		return "", "", ErrInvalidClassName
	}
	if len(notes) > maxNotesLen {
		return "", "", ErrNotesTooLong
	}
	return name, notes, nil
}

func toPlannedClassResponse(pc *model.PlannedClass) dto.PlannedClassResponse {
	return dto.PlannedClassResponse{
		ID:        pc.PlannedClassID,
		ClassName: pc.ClassName,
		Notes:     pc.Notes,
		CreatedAt: pc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: pc.UpdatedAt.Format(time.RFC3339),
	}
}
