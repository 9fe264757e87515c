package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Bryne19/deanza-course-planner/config"
	"github.com/Bryne19/deanza-course-planner/internal/dto"
	"github.com/Bryne19/deanza-course-planner/internal/model"
	"github.com/Bryne19/deanza-course-planner/pkg/redis"
)

// ── 课程搜索流水线 ───────────────────────────────────────────
// 列表页抓班次 → 汇总去重教授 → 逐个查评分（先查缓存）→
// 评分挂回班次 → 按评分排序 → 解析会面时间。
// 评分与时间解析的失败都只降级不报错；只有列表页抓取失败
// 才会让整个搜索失败。
// ─────────────────────────────────────────────────────────────

// SearchService 课程搜索业务接口
type SearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
}

type searchService struct {
	listings    ListingsClient
	ratings     RatingsClient
	cache       *redis.Client // 可为 nil：Redis 不可用时直连上游
	defaultTerm string
	cfg         *config.ScraperConfig
	logger      *zap.Logger
}

// NewSearchService 创建 SearchService 实例
// cache 传 nil 表示评分缓存不可用，每次搜索都回源查询
func NewSearchService(listings ListingsClient, ratings RatingsClient, cache *redis.Client, cfg *config.ScraperConfig, logger *zap.Logger) SearchService {
	return &searchService{
		listings:    listings,
		ratings:     ratings,
		cache:       cache,
		defaultTerm: cfg.DefaultTerm,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	department := strings.ToUpper(strings.TrimSpace(req.Department))
	courseCode := strings.ToUpper(strings.TrimSpace(req.CourseCode))
	term := strings.ToUpper(strings.TrimSpace(req.Term))
	if term == "" {
		term = s.defaultTerm
	}

	scraped, err := s.listings.SearchCourse(ctx, department, courseCode, term)
	if err != nil {
		s.logger.Error("课程搜索失败",
			zap.String("department", department),
			zap.String("course_code", courseCode),
			zap.String("term", term),
			zap.Error(err),
		)
		return nil, err
	}

	ratingsByProfessor := s.fetchRatingsForAll(ctx, scraped)

	sections := make([]dto.SectionResponse, 0, len(scraped))
	for _, sec := range scraped {
		resp := dto.SectionResponse{
			CRN:       sec.CRN,
			Course:    sec.Course,
			Professor: sec.Professor,
			ClassTime: sec.ClassTime,
			Format:    sec.Format,
			Ratings:   ratingsByProfessor[sec.Professor],
			TimeData:  model.ParseMeetingTime(sec.ClassTime),
		}
		sections = append(sections, resp)
	}

	sortByRating(sections)

	return &dto.SearchResponse{
		CourseName: department + " " + courseCode,
		Term:       term,
		Sections:   sections,
	}, nil
}

// fetchRatingsForAll 为去重后的每位教授查一次评分
// 同名教授的多个班次共享同一条评分，查询顺序跟随班次顺序
func (s *searchService) fetchRatingsForAll(ctx context.Context, scraped []ScrapedSection) map[string]*model.ProfessorRatings {
	result := make(map[string]*model.ProfessorRatings)
	for _, sec := range scraped {
		name := sec.Professor
		if name == "" || strings.EqualFold(name, "TBA") {
			continue
		}
		if _, done := result[name]; done {
			continue
		}
		result[name] = s.fetchRatingsCached(ctx, name)
	}
	return result
}

// fetchRatingsCached 带 Redis 缓存的评分查询
// "查过但没找到"也缓存（空对象），避免对无评分教授反复回源
func (s *searchService) fetchRatingsCached(ctx context.Context, name string) *model.ProfessorRatings {
	type cachedRatings struct {
		Found   bool                    `json:"found"`
		Ratings *model.ProfessorRatings `json:"ratings,omitempty"`
	}
	key := ratingsCacheKey(name)

	if s.cache != nil {
		var cached cachedRatings
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("评分缓存读取失败", zap.String("professor", name), zap.Error(err))
		} else if hit {
			return cached.Ratings
		}
	}

	ratings, err := s.ratings.FetchRatings(ctx, name)
	if err != nil {
		s.logger.Warn("评分查询失败", zap.String("professor", name), zap.Error(err))
		return nil
	}

	if s.cache != nil {
		entry := cachedRatings{Found: ratings != nil, Ratings: ratings}
		if err := s.cache.SetJSON(ctx, key, entry, s.cfg.RatingsCacheTTL); err != nil {
			s.logger.Warn("评分缓存写入失败", zap.String("professor", name), zap.Error(err))
		}
	}

	return ratings
}

func ratingsCacheKey(name string) string {
	return fmt.Sprintf("ratings:%s", strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

// sortByRating 有评分的按分数降序，无评分的保持原序排在最后
func sortByRating(sections []dto.SectionResponse) {
	sort.SliceStable(sections, func(i, j int) bool {
		ri, rj := sections[i].Ratings, sections[j].Ratings
		switch {
		case ri != nil && rj != nil:
			return ri.Rating > rj.Rating
		case ri != nil:
			return true
		default:
			return false
		}
	})
}
