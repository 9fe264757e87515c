package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Bryne19/deanza-course-planner/internal/dto"
	"github.com/Bryne19/deanza-course-planner/internal/model"
	"github.com/Bryne19/deanza-course-planner/internal/repository"
	apperrors "github.com/Bryne19/deanza-course-planner/pkg/errors"
)

// ── 课表模块业务错误 ──

var (
	ErrScheduleMissingCRN = errors.New("课程记录缺少 CRN")
)

// ── ScheduleService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 同 CRN 重复加课采用"替换"策略（与退课后重加等价），不报错；
//     是否发生替换在响应中体现。
//   - 冲突是派生数据：每次读取时从当前课程集合重算，不随课表落库。
//   - 加课响应只报告新加课程引入的冲突；完整冲突集走 GetSchedule。
//   - 所有持久化错误包装为 ErrStorageUnavailable 向上传播。
// ─────────────────────────────────────────────────────────────

// ScheduleService 课表模块业务接口
type ScheduleService interface {
	// AddSection 加入课程；同 CRN 已存在时替换
	AddSection(ctx context.Context, sessionID string, req *dto.AddSectionRequest) (*dto.AddSectionResponse, error)
	// RemoveSection 按 CRN 退课；课程不存在不是错误
	RemoveSection(ctx context.Context, sessionID, crn string) (*dto.RemoveSectionResponse, error)
	// ListSections 按插入顺序返回已选课程
	ListSections(ctx context.Context, sessionID string) ([]dto.SectionResponse, error)
	// GetSchedule 返回课表与完整冲突集（每次重算）
	GetSchedule(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error)
	// Clear 清空课表
	Clear(ctx context.Context, sessionID string) error
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) AddSection(ctx context.Context, sessionID string, req *dto.AddSectionRequest) (*dto.AddSectionResponse, error) {
	crn := strings.TrimSpace(req.CRN)
	if crn == "" {
		return nil, ErrScheduleMissingCRN
	}

	section := model.Section{
		SessionID: sessionID,
		CRN:       crn,
		Course:    strings.ToUpper(strings.TrimSpace(req.Course)),
		Professor: defaultString(strings.TrimSpace(req.Professor), "TBA"),
		RawTime:   defaultString(strings.TrimSpace(req.ClassTime), "TBA"),
		Format:    defaultString(strings.TrimSpace(req.Format), "Unknown"),
	}
	if req.Ratings != nil {
		section.SetRatings(&model.ProfessorRatings{
			Rating:     req.Ratings.Rating,
			Difficulty: req.Ratings.Difficulty,
			NumRatings: req.Ratings.NumRatings,
			URL:        req.Ratings.URL,
		})
	}

	// 解析失败只记日志：无固定时间的课程照常入课表，仅不参与冲突检测
	if mt := section.MeetingTime(); !mt.HasFixedTime {
		s.logger.Debug("课程无固定会面时间",
			zap.String("crn", crn),
			zap.String("raw_time", section.RawTime),
		)
	}

	replaced, err := s.repo.Section.Replace(ctx, &section)
	if err != nil {
		s.logger.Error("写入课程失败", zap.Error(err), zap.String("crn", crn))
		return nil, storageErr(err)
	}

	sections, err := s.repo.Section.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err)
	}

	return &dto.AddSectionResponse{
		Added:     true,
		Replaced:  replaced,
		Conflicts: conflictsInvolving(FindConflicts(sections), crn),
	}, nil
}

func (s *scheduleService) RemoveSection(ctx context.Context, sessionID, crn string) (*dto.RemoveSectionResponse, error) {
	removed, err := s.repo.Section.Delete(ctx, sessionID, strings.TrimSpace(crn))
	if err != nil {
		s.logger.Error("退课失败", zap.Error(err), zap.String("crn", crn))
		return nil, storageErr(err)
	}

	sections, err := s.repo.Section.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err)
	}

	return &dto.RemoveSectionResponse{
		Removed:   removed,
		Conflicts: FindConflicts(sections),
	}, nil
}

func (s *scheduleService) ListSections(ctx context.Context, sessionID string) ([]dto.SectionResponse, error) {
	sections, err := s.repo.Section.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err)
	}
	return toSectionResponses(sections), nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error) {
	sections, err := s.repo.Section.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err)
	}

	return &dto.ScheduleResponse{
		Sections:  toSectionResponses(sections),
		Conflicts: FindConflicts(sections),
	}, nil
}

func (s *scheduleService) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.Section.Clear(ctx, sessionID); err != nil {
		s.logger.Error("清空课表失败", zap.Error(err))
		return storageErr(err)
	}
	return nil
}

// ── 响应转换器 ──

func toSectionResponses(sections []model.Section) []dto.SectionResponse {
	result := make([]dto.SectionResponse, 0, len(sections))
	for i := range sections {
		result = append(result, toSectionResponse(&sections[i]))
	}
	return result
}

func toSectionResponse(s *model.Section) dto.SectionResponse {
	return dto.SectionResponse{
		CRN:       s.CRN,
		Course:    s.Course,
		Professor: s.Professor,
		ClassTime: s.RawTime,
		Format:    s.Format,
		Ratings:   s.Ratings(),
		TimeData:  s.MeetingTime(),
	}
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
}

func defaultString(val, def string) string {
	if val == "" {
		return def
	}
	return val
}
